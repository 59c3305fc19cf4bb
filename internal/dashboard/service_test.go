package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurement-tools/procdash/internal/config"
	"github.com/procurement-tools/procdash/internal/filter"
	"github.com/procurement-tools/procdash/internal/ingest"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

func sampleWorkbook() *ingest.Workbook {
	prs := table.New(schema.FieldPRNumber, schema.FieldPRDate, schema.FieldPRStatus,
		schema.FieldMaterialGroup, schema.FieldBuyer)
	prs.AppendRow("PR-1", "2024-01-10", "Open", "MG-1", "ana")
	prs.AppendRow("PR-2", "2024-02-11", "Closed", "MG-2", "ben")

	pos := table.New(schema.FieldPONumber, schema.FieldPODate, schema.FieldPOStatus,
		schema.FieldDeliveryStatus, schema.FieldPRNumber, schema.FieldVendor)
	pos.AppendRow("PO-1", "2024-01-20", "Released", "Partial", "PR-1", "Acme")

	mapping := table.New(schema.FieldKey, schema.FieldCategory)
	mapping.AppendRow("MG-1", "MRO")

	return &ingest.Workbook{PRs: prs, POs: pos, CategoryMapping: mapping}
}

func TestBuildSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.CategoryMapping["MG-2"] = "Capex"

	snap := NewService(nil).Build(sampleWorkbook(), cfg)

	assert.Empty(t, snap.MissingPRFields)
	assert.Empty(t, snap.MissingPOFields)
	assert.Zero(t, snap.UnresolvedPRs)
	assert.Equal(t, 1, snap.UnresolvedPOs, "POs carry no key fields")

	// sheet mapping resolves MG-1, app mapping resolves MG-2
	assert.Equal(t, "MRO", snap.PRs.Cell(0, schema.FieldCategory))
	assert.Equal(t, "Capex", snap.PRs.Cell(1, schema.FieldCategory))
}

func TestBuildDoesNotMutateWorkbook(t *testing.T) {
	wb := sampleWorkbook()
	NewService(nil).Build(wb, config.Default())
	assert.False(t, wb.PRs.HasColumn(schema.FieldCategory), "derived columns stay out of the session copy")
}

func TestDashboardView(t *testing.T) {
	cfg := config.Default()
	svc := NewService(nil)
	snap := svc.Build(sampleWorkbook(), cfg)

	view := svc.Dashboard(snap, filter.Selection{}, cfg)
	assert.Equal(t, 2, view.Metrics.TotalPRs)
	assert.Equal(t, 1, view.Metrics.TotalPOs)
	assert.Equal(t, 2, view.Metrics.OpenPRs, "PR-2 is Closed but has no linked PO")
	assert.Equal(t, 1, view.Metrics.OpenDeliveryPOs)
	assert.Equal(t, []string{"Acme"}, view.Options.Vendors)
	assert.Equal(t, []string{"ana", "ben"}, view.Options.Buyers)
	assert.Equal(t, cfg.Settings.CategoryColors, view.Colors)
}

func TestHealthReport(t *testing.T) {
	cfg := config.Default()
	svc := NewService(nil)
	snap := svc.Build(sampleWorkbook(), cfg)

	h := svc.Health(snap, cfg)
	require.Len(t, h.Sheets, 2)
	assert.Equal(t, schema.SheetPRs, h.Sheets[0].Sheet)
	assert.Equal(t, 2, h.Sheets[0].Rows)
	// MG-1 from the sheet of MG-1/MG-2 distinct keys
	assert.InDelta(t, 50.0, h.MappingCoverage, 0.01)
	assert.Equal(t, 1, h.MappingEntries)
}
