// Package ingest reads uploaded XLSX workbooks into tables. Ingestion is lenient
// about row-level problems and strict about structure: a workbook that cannot be
// opened, or that carries neither a PRs nor a POs sheet, is a blocking error.
package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/common"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Workbook is the parsed content of one upload.
type Workbook struct {
	PRs             *table.Table
	POs             *table.Table
	CategoryMapping *table.Table

	// Warnings collects non-fatal structural findings (missing optional sheet,
	// skipped mapping rows) for the data health report.
	Warnings []string
}

// ParseWorkbook reads an XLSX stream into tables, one per recognized sheet.
// Header names are trimmed; fully empty rows are dropped.
func ParseWorkbook(r io.Reader, logger *zap.Logger) (*Workbook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.NewAppError("BAD_WORKBOOK", "could not open workbook", common.ErrBadWorkbook)
	}
	defer f.Close()

	wb := &Workbook{}
	present := map[string]bool{}
	for _, name := range f.GetSheetList() {
		present[strings.TrimSpace(name)] = true
	}

	readSheet := func(name string) (*table.Table, error) {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, common.WrapError(err, fmt.Sprintf("read sheet %s", name))
		}
		return tableFromRows(rows), nil
	}

	if present[schema.SheetPRs] {
		if wb.PRs, err = readSheet(schema.SheetPRs); err != nil {
			return nil, err
		}
	} else {
		wb.Warnings = append(wb.Warnings, "sheet PRs not found")
	}
	if present[schema.SheetPOs] {
		if wb.POs, err = readSheet(schema.SheetPOs); err != nil {
			return nil, err
		}
	} else {
		wb.Warnings = append(wb.Warnings, "sheet POs not found")
	}
	if present[schema.SheetCategoryMapping] {
		if wb.CategoryMapping, err = readSheet(schema.SheetCategoryMapping); err != nil {
			return nil, err
		}
	}

	if wb.PRs == nil && wb.POs == nil {
		return nil, common.NewAppError("NO_RECORD_SHEETS",
			"workbook has neither a PRs nor a POs sheet", common.ErrBadWorkbook)
	}

	logger.Info("workbook parsed",
		zap.Int("pr_rows", wb.PRs.Len()),
		zap.Int("po_rows", wb.POs.Len()),
		zap.Bool("has_category_mapping", wb.CategoryMapping != nil),
		zap.Strings("warnings", wb.Warnings),
	)
	return wb, nil
}

func tableFromRows(rows [][]string) *table.Table {
	if len(rows) == 0 {
		return &table.Table{}
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for i, c := range header {
		c = strings.TrimSpace(c)
		if c == "" {
			c = fmt.Sprintf("Column_%d", i+1)
		}
		columns = append(columns, c)
	}

	t := &table.Table{Columns: columns}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		t.AppendRow(row...)
	}
	return t
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseCategoryMapping extracts key -> canonical category pairs from a mapping
// table. Rows with a blank key or an unrecognized category are skipped and
// reported, never fatal.
func ParseCategoryMapping(t *table.Table) (map[string]string, []string) {
	mapping := map[string]string{}
	var warnings []string
	if t == nil {
		return mapping, warnings
	}

	keyCol := schema.FieldKey
	catCol := schema.FieldCategory
	if !t.HasColumn(keyCol) || !t.HasColumn(catCol) {
		warnings = append(warnings,
			"Category_Mapping sheet needs Key_Field and Category columns")
		return mapping, warnings
	}

	for i := 0; i < t.Len(); i++ {
		key := t.Cell(i, keyCol)
		rawCat := t.Cell(i, catCol)
		if key == "" {
			if rawCat != "" {
				warnings = append(warnings, fmt.Sprintf("Category_Mapping row %d: blank key", i+2))
			}
			continue
		}
		cat, ok := schema.Canonicalize(rawCat)
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("Category_Mapping row %d: unknown category %q for key %q", i+2, rawCat, key))
			continue
		}
		// last write wins on duplicate keys
		mapping[key] = string(cat)
	}
	return mapping, warnings
}
