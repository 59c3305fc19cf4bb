package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

func TestApplyRenamesMappedColumns(t *testing.T) {
	raw := table.New("Req No", "Created", "State", "Plant")
	raw.AppendRow("PR-1", "2024-01-10", "Open", "P01")

	sheet, _ := schema.SheetFor(schema.SheetPRs)
	cm := ColumnMap{
		schema.FieldPRNumber: "Req No",
		schema.FieldPRDate:   "Created",
		schema.FieldPRStatus: "State",
	}

	mapped, missing := Apply(raw, sheet, cm)
	require.Empty(t, missing)
	assert.Equal(t, []string{"PR_Number", "PR_Date", "PR_Status", "Plant"}, mapped.Columns,
		"unmapped source columns ride along")
	assert.Equal(t, "PR-1", mapped.Cell(0, schema.FieldPRNumber))
	assert.Equal(t, "Req No", raw.Columns[0], "input table untouched")
}

func TestApplyReportsMissingRequired(t *testing.T) {
	raw := table.New("Req No")
	raw.AppendRow("PR-1")

	sheet, _ := schema.SheetFor(schema.SheetPRs)
	mapped, missing := Apply(raw, sheet, ColumnMap{schema.FieldPRNumber: "Req No"})
	assert.ElementsMatch(t, []string{schema.FieldPRDate, schema.FieldPRStatus}, missing)
	assert.NotNil(t, mapped, "mapping failures never block the table")
}

func TestApplyCanonicalColumnsNeedNoMapping(t *testing.T) {
	raw := table.New("PR_Number", "PR_Date", "PR_Status")
	raw.AppendRow("PR-1", "2024-01-10", "Open")

	sheet, _ := schema.SheetFor(schema.SheetPRs)
	_, missing := Apply(raw, sheet, ColumnMap{})
	assert.Empty(t, missing)
}

func TestApplyMappedToMissingColumn(t *testing.T) {
	raw := table.New("Req No")
	raw.AppendRow("PR-1")

	sheet, _ := schema.SheetFor(schema.SheetPRs)
	_, missing := Apply(raw, sheet, ColumnMap{
		schema.FieldPRNumber: "Req No",
		schema.FieldPRDate:   "Gone",
		schema.FieldPRStatus: "Also Gone",
	})
	assert.ElementsMatch(t, []string{schema.FieldPRDate, schema.FieldPRStatus}, missing)
}

func TestApplyNilTable(t *testing.T) {
	sheet, _ := schema.SheetFor(schema.SheetPOs)
	mapped, missing := Apply(nil, sheet, ColumnMap{})
	assert.Nil(t, mapped)
	assert.Len(t, missing, len(sheet.RequiredFields()))
}
