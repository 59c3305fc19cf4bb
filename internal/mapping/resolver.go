package mapping

import (
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Resolver fills the Category column of mapped tables. Precedence per record:
//
//  1. explicit Category cell, if it canonicalizes to a known category
//  2. mapping-sheet lookup by the record's key fields
//  3. in-app editable mapping
//  4. unresolved (empty), presented downstream as Uncategorized
//
// Resolution is deterministic: the same inputs always yield the same category.
type Resolver struct {
	SheetMapping map[string]string
	AppMapping   map[string]string
}

// Resolve writes the resolved category of every row into the Category column
// (adding it when absent) and returns the number of unresolved rows.
func (r Resolver) Resolve(t *table.Table) int {
	if t == nil || t.Len() == 0 {
		if t != nil {
			t.EnsureColumn(schema.FieldCategory)
		}
		return 0
	}

	t.EnsureColumn(schema.FieldCategory)
	unresolved := 0
	for i := 0; i < t.Len(); i++ {
		cat := r.resolveRow(t, i)
		t.SetCell(i, schema.FieldCategory, cat)
		if cat == "" {
			unresolved++
		}
	}
	return unresolved
}

func (r Resolver) resolveRow(t *table.Table, row int) string {
	if explicit := t.Cell(row, schema.FieldCategory); explicit != "" {
		if cat, ok := schema.Canonicalize(explicit); ok {
			return string(cat)
		}
	}

	for _, keyField := range schema.KeyFields() {
		key := t.Cell(row, keyField)
		if key == "" {
			continue
		}
		if cat, ok := r.SheetMapping[key]; ok && schema.IsCategory(cat) {
			return cat
		}
	}
	for _, keyField := range schema.KeyFields() {
		key := t.Cell(row, keyField)
		if key == "" {
			continue
		}
		if cat, ok := r.AppMapping[key]; ok && schema.IsCategory(cat) {
			return cat
		}
	}

	return ""
}

// DisplayCategory maps the internal empty category onto its presentation label.
func DisplayCategory(cat string) string {
	if cat == "" {
		return schema.Uncategorized
	}
	return cat
}
