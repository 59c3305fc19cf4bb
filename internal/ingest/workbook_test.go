package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/procurement-tools/procdash/internal/common"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// buildWorkbook writes sheets of string rows into an in-memory XLSX file.
func buildWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			for c, cell := range row {
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, ref, cell))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	r := buildWorkbook(t, map[string][][]string{
		schema.SheetPRs: {
			{" Req No ", "Created", "State"},
			{"PR-1", "2024-01-10", "Open"},
			{"", "", ""},
			{"PR-2", "2024-02-11", "Closed"},
		},
		schema.SheetPOs: {
			{"Order", "Booked", "Status", "Delivery"},
			{"PO-9", "2024-02-01", "Released", "Partial"},
		},
	})

	wb, err := ParseWorkbook(r, nil)
	require.NoError(t, err)

	require.NotNil(t, wb.PRs)
	assert.Equal(t, []string{"Req No", "Created", "State"}, wb.PRs.Columns, "headers are trimmed")
	assert.Equal(t, 2, wb.PRs.Len(), "empty rows are dropped")
	assert.Equal(t, 1, wb.POs.Len())
	assert.Nil(t, wb.CategoryMapping)
	assert.Empty(t, wb.Warnings)
}

func TestParseWorkbookMissingOneSheet(t *testing.T) {
	r := buildWorkbook(t, map[string][][]string{
		schema.SheetPRs: {{"PR_Number"}, {"PR-1"}},
	})

	wb, err := ParseWorkbook(r, nil)
	require.NoError(t, err)
	assert.Nil(t, wb.POs)
	assert.Contains(t, wb.Warnings, "sheet POs not found")
}

func TestParseWorkbookNoRecordSheets(t *testing.T) {
	r := buildWorkbook(t, map[string][][]string{
		"Budget": {{"X"}, {"1"}},
	})

	_, err := ParseWorkbook(r, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadWorkbook))
}

func TestParseWorkbookUnreadable(t *testing.T) {
	_, err := ParseWorkbook(bytes.NewReader([]byte("not an xlsx")), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadWorkbook))
}

func TestParseCategoryMapping(t *testing.T) {
	tbl := table.New(schema.FieldKey, schema.FieldCategory)
	tbl.AppendRow("MG-100", "MRO")
	tbl.AppendRow("MG-200", "services") // canonicalized
	tbl.AppendRow("", "Capex")          // blank key
	tbl.AppendRow("MG-300", "Widgets")  // unknown category
	tbl.AppendRow("MG-100", "Capex")    // duplicate key, last write wins

	mapping, warnings := ParseCategoryMapping(tbl)
	assert.Equal(t, map[string]string{
		"MG-100": "Capex",
		"MG-200": "Services",
	}, mapping)
	assert.Len(t, warnings, 2)
}

func TestParseCategoryMappingWrongColumns(t *testing.T) {
	tbl := table.New("Key", "Cat")
	tbl.AppendRow("a", "MRO")

	mapping, warnings := ParseCategoryMapping(tbl)
	assert.Empty(t, mapping)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Key_Field")
}
