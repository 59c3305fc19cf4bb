// Package filter narrows mapped tables to the user's current selection.
// Dimensions combine with AND; values inside one dimension combine with OR. An
// empty dimension applies no filter. Application is idempotent and independent
// of the order dimensions are evaluated in.
package filter

import (
	"net/url"
	"strings"
	"time"

	"github.com/procurement-tools/procdash/internal/mapping"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Selection is one transient set of user-chosen constraints. It is recomputed
// from the request on every interaction and never persisted.
type Selection struct {
	PRDateFrom *time.Time
	PRDateTo   *time.Time
	PODateFrom *time.Time
	PODateTo   *time.Time

	Categories []string
	Vendors    []string
	Buyers     []string
	PRStatuses []string
	POStatuses []string

	DateFormat table.DateFormat
}

// FromQuery parses a selection from request query parameters. Invalid dates are
// reported by name so the handler can reject the request.
func FromQuery(q url.Values, format table.DateFormat) (Selection, []string) {
	sel := Selection{DateFormat: format}
	var bad []string

	parse := func(name string) *time.Time {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			bad = append(bad, name)
			return nil
		}
		return &t
	}

	sel.PRDateFrom = parse("pr_from")
	sel.PRDateTo = parse("pr_to")
	sel.PODateFrom = parse("po_from")
	sel.PODateTo = parse("po_to")
	sel.Categories = clean(q["category"])
	sel.Vendors = clean(q["vendor"])
	sel.Buyers = clean(q["buyer"])
	sel.PRStatuses = clean(q["pr_status"])
	sel.POStatuses = clean(q["po_status"])
	return sel, bad
}

func clean(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// PRs returns the PR rows satisfying every active constraint.
func (s Selection) PRs(t *table.Table) *table.Table {
	if t == nil {
		return nil
	}
	return t.Filter(func(row int) bool {
		if !inDateRange(t, row, schema.FieldPRDate, s.PRDateFrom, s.PRDateTo, s.DateFormat) {
			return false
		}
		if !inSet(displayCat(t, row), s.Categories) {
			return false
		}
		if !inColumnSet(t, row, schema.FieldBuyer, s.Buyers) {
			return false
		}
		return inColumnSet(t, row, schema.FieldPRStatus, s.PRStatuses)
	})
}

// POs returns the PO rows satisfying every active constraint.
func (s Selection) POs(t *table.Table) *table.Table {
	if t == nil {
		return nil
	}
	return t.Filter(func(row int) bool {
		if !inDateRange(t, row, schema.FieldPODate, s.PODateFrom, s.PODateTo, s.DateFormat) {
			return false
		}
		if !inSet(displayCat(t, row), s.Categories) {
			return false
		}
		if !inColumnSet(t, row, schema.FieldVendor, s.Vendors) {
			return false
		}
		if !inColumnSet(t, row, schema.FieldBuyer, s.Buyers) {
			return false
		}
		return inColumnSet(t, row, schema.FieldPOStatus, s.POStatuses)
	})
}

// inDateRange keeps rows whose date cell falls inside [from, to], inclusive.
// A from-only range extends to today. Rows with missing or unparseable dates are
// excluded only when a range is active, mirroring a spreadsheet date filter.
func inDateRange(t *table.Table, row int, col string, from, to *time.Time, format table.DateFormat) bool {
	if from == nil && to == nil {
		return true
	}
	if !t.HasColumn(col) {
		return true
	}
	d, ok := table.ParseDate(t.Cell(row, col), format)
	if !ok {
		return false
	}
	if from != nil && to == nil {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to = &today
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(to.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		return false
	}
	return true
}

// inColumnSet keeps the row when the set is empty, the column is unmapped, or
// the cell value is one of the selected values.
func inColumnSet(t *table.Table, row int, col string, set []string) bool {
	if len(set) == 0 || !t.HasColumn(col) {
		return true
	}
	return inSet(t.Cell(row, col), set)
}

func inSet(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func displayCat(t *table.Table, row int) string {
	return mapping.DisplayCategory(t.Cell(row, schema.FieldCategory))
}
