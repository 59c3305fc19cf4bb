package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

func TestSheetReport(t *testing.T) {
	tbl := table.New(schema.FieldPRNumber, schema.FieldPRDate, schema.FieldPRAmount, schema.FieldCategory)
	tbl.AppendRow("PR-1", "2024-01-10", "100", "MRO")
	tbl.AppendRow("PR-2", "2024-02-11", "", "")
	tbl.AppendRow("PR-3", "", "300", "Capex")
	tbl.AppendRow("PR-4", "2024-04-02", "400", "")

	h := SheetReport(schema.SheetPRs, tbl, nil, table.DateAuto)
	assert.Equal(t, schema.SheetPRs, h.Sheet)
	assert.Equal(t, 4, h.Rows)
	assert.Equal(t, 2, h.Unresolved)
	assert.InDelta(t, 50.0, h.UnresolvedPercent, 0.001)

	byName := map[string]ColumnHealth{}
	for _, c := range h.Columns {
		byName[c.Name] = c
	}
	require.Len(t, byName, 4)
	assert.Equal(t, table.DtypeText, byName[schema.FieldPRNumber].Dtype)
	assert.Equal(t, table.DtypeDate, byName[schema.FieldPRDate].Dtype)
	assert.Equal(t, table.DtypeNumber, byName[schema.FieldPRAmount].Dtype)
	assert.InDelta(t, 25.0, byName[schema.FieldPRDate].NullRate, 0.001)
	assert.InDelta(t, 25.0, byName[schema.FieldPRAmount].NullRate, 0.001)
}

func TestSheetReportNilTable(t *testing.T) {
	h := SheetReport(schema.SheetPOs, nil, []string{schema.FieldPOStatus}, table.DateAuto)
	assert.Zero(t, h.Rows)
	assert.Equal(t, []string{schema.FieldPOStatus}, h.MissingRequired)
	assert.Empty(t, h.Columns)
}

func TestMappingCoverage(t *testing.T) {
	prs := table.New(schema.FieldMaterialGroup)
	prs.AppendRow("MG-1")
	prs.AppendRow("MG-2")
	prs.AppendRow("")

	pos := table.New(schema.FieldCostCenter)
	pos.AppendRow("CC-1")
	pos.AppendRow("MG-1") // shared value counts once

	m := map[string]string{"MG-1": "MRO", "CC-1": "Capex", "MG-unused": "PCM"}
	entries, coverage := MappingCoverage(m, prs, pos)
	assert.Equal(t, 3, entries)
	// distinct keys: MG-1, MG-2, CC-1; covered: MG-1, CC-1
	assert.InDelta(t, 66.666, coverage, 0.01)
}

func TestMappingCoverageNoKeys(t *testing.T) {
	entries, coverage := MappingCoverage(map[string]string{"K": "MRO"}, nil, table.New("Other"))
	assert.Equal(t, 1, entries)
	assert.Zero(t, coverage)
}
