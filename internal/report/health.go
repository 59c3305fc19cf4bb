package report

import (
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// ColumnHealth is one column's diagnostic summary.
type ColumnHealth struct {
	Name     string      `json:"name"`
	Dtype    table.Dtype `json:"dtype"`
	NullRate float64     `json:"null_rate"` // percentage, 0-100
}

// SheetHealth summarizes one record sheet.
type SheetHealth struct {
	Sheet             string         `json:"sheet"`
	Rows              int            `json:"rows"`
	MissingRequired   []string       `json:"missing_required"`
	Columns           []ColumnHealth `json:"columns"`
	Unresolved        int            `json:"unresolved_categories"`
	UnresolvedPercent float64        `json:"unresolved_percent"`
}

// Health is the full data-health report.
type Health struct {
	Sheets          []SheetHealth `json:"sheets"`
	MappingEntries  int           `json:"category_mapping_entries"`
	MappingCoverage float64       `json:"category_mapping_coverage"` // percentage of key values covered
	Warnings        []string      `json:"warnings"`
}

// SheetReport builds the per-sheet diagnostics over an already-resolved table.
// missingRequired comes from the column mapper; unresolved from the resolver.
func SheetReport(sheet string, t *table.Table, missingRequired []string, format table.DateFormat) SheetHealth {
	h := SheetHealth{
		Sheet:           sheet,
		Rows:            t.Len(),
		MissingRequired: missingRequired,
	}
	if t == nil {
		return h
	}

	for _, col := range t.Columns {
		values := t.Column(col)
		h.Columns = append(h.Columns, ColumnHealth{
			Name:     col,
			Dtype:    table.InferDtype(values, format),
			NullRate: table.NullRate(values) * 100,
		})
	}

	for i := 0; i < t.Len(); i++ {
		if t.Cell(i, schema.FieldCategory) == "" {
			h.Unresolved++
		}
	}
	if h.Rows > 0 {
		h.UnresolvedPercent = float64(h.Unresolved) / float64(h.Rows) * 100
	}
	return h
}

// MappingCoverage returns the percentage of distinct key-field values across the
// given tables that the category mapping covers. Tables without key columns
// contribute nothing.
func MappingCoverage(mapping map[string]string, tables ...*table.Table) (entries int, coverage float64) {
	entries = len(mapping)
	keys := map[string]struct{}{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, keyField := range schema.KeyFields() {
			for _, v := range t.Column(keyField) {
				if v != "" {
					keys[v] = struct{}{}
				}
			}
		}
	}
	if len(keys) == 0 {
		return entries, 0
	}
	covered := 0
	for k := range keys {
		if _, ok := mapping[k]; ok {
			covered++
		}
	}
	return entries, float64(covered) / float64(len(keys)) * 100
}
