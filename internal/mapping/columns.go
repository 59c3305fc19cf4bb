// Package mapping projects uploaded tables onto the expected schema and resolves
// record categories.
package mapping

import (
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// ColumnMap associates expected logical fields with source column names.
// An absent or empty entry means the field is unmapped.
type ColumnMap map[string]string

// Apply renames the mapped source columns of t to their canonical field names and
// returns the required fields that remain unmapped or point at missing columns.
// Unmapped source columns ride along untouched so detail views and exports keep
// the full uploaded row. The input table is not modified.
func Apply(t *table.Table, sheet schema.Sheet, cm ColumnMap) (*table.Table, []string) {
	missing := missingRequired(t, sheet, cm)
	if t == nil {
		return nil, missing
	}

	out := t.Clone()
	renames := map[string]string{}
	for _, field := range sheet.Fields {
		source := cm[field.Name]
		if source == "" || source == field.Name {
			continue
		}
		if out.HasColumn(source) && !out.HasColumn(field.Name) {
			renames[source] = field.Name
		}
	}
	out.Rename(renames)
	return out, missing
}

func missingRequired(t *table.Table, sheet schema.Sheet, cm ColumnMap) []string {
	var missing []string
	for _, field := range sheet.Fields {
		if !field.Required {
			continue
		}
		source := cm[field.Name]
		if source == "" {
			// a column already carrying the canonical name needs no mapping
			if t.HasColumn(field.Name) {
				continue
			}
			missing = append(missing, field.Name)
			continue
		}
		if !t.HasColumn(source) {
			missing = append(missing, field.Name)
		}
	}
	return missing
}
