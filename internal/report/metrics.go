// Package report computes the KPI, aggregation and data-health views the
// dashboard presents. Everything here is a read-only pass over tables already
// mapped, resolved and flagged upstream.
package report

import (
	"sort"

	"github.com/procurement-tools/procdash/internal/mapping"
	"github.com/procurement-tools/procdash/internal/rules"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Metrics are the headline KPI counts over the currently filtered subset.
type Metrics struct {
	TotalPRs        int `json:"total_prs"`
	TotalPOs        int `json:"total_pos"`
	OpenPRs         int `json:"open_prs"`
	OpenDeliveryPOs int `json:"open_delivery_pos"`
}

// ComputeMetrics counts rows and previously derived open flags.
func ComputeMetrics(prs, pos *table.Table) Metrics {
	m := Metrics{TotalPRs: prs.Len(), TotalPOs: pos.Len()}
	for i := 0; i < prs.Len(); i++ {
		if rules.IsOpen(prs, i, rules.ColIsOpenPR) {
			m.OpenPRs++
		}
	}
	for i := 0; i < pos.Len(); i++ {
		if rules.IsOpen(pos, i, rules.ColIsOpenDeliveryPO) {
			m.OpenDeliveryPOs++
		}
	}
	return m
}

// CategoryCount is one category's PR/PO counts and amount sum.
type CategoryCount struct {
	Category string  `json:"category"`
	PRs      int     `json:"prs"`
	POs      int     `json:"pos"`
	PRAmount float64 `json:"pr_amount"`
}

// CountByCategory groups both tables by resolved category. Canonical categories
// come first in display order; Uncategorized, when present, is last.
func CountByCategory(prs, pos *table.Table) []CategoryCount {
	byCat := map[string]*CategoryCount{}
	get := func(cat string) *CategoryCount {
		if c, ok := byCat[cat]; ok {
			return c
		}
		c := &CategoryCount{Category: cat}
		byCat[cat] = c
		return c
	}

	for i := 0; i < prs.Len(); i++ {
		c := get(mapping.DisplayCategory(prs.Cell(i, schema.FieldCategory)))
		c.PRs++
		if amount, ok := table.ParseNumber(prs.Cell(i, schema.FieldPRAmount)); ok {
			c.PRAmount += amount
		}
	}
	for i := 0; i < pos.Len(); i++ {
		get(mapping.DisplayCategory(pos.Cell(i, schema.FieldCategory))).POs++
	}

	var out []CategoryCount
	for _, name := range schema.Categories() {
		if c, ok := byCat[name]; ok {
			out = append(out, *c)
			delete(byCat, name)
		}
	}
	rest := make([]string, 0, len(byCat))
	for name := range byCat {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, *byCat[name])
	}
	return out
}

// TrendPoint is one month's record count for one category.
type TrendPoint struct {
	Month    string `json:"month"` // YYYY-MM
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MonthlyTrend buckets a table by month of its date column and resolved
// category. Rows with unparseable dates are skipped; they are already surfaced
// through the health report.
func MonthlyTrend(t *table.Table, dateCol string, format table.DateFormat) []TrendPoint {
	if t == nil || !t.HasColumn(dateCol) {
		return nil
	}

	type key struct{ month, cat string }
	counts := map[key]int{}
	for i := 0; i < t.Len(); i++ {
		d, ok := table.ParseDate(t.Cell(i, dateCol), format)
		if !ok {
			continue
		}
		k := key{d.Format("2006-01"), mapping.DisplayCategory(t.Cell(i, schema.FieldCategory))}
		counts[k]++
	}

	out := make([]TrendPoint, 0, len(counts))
	for k, n := range counts {
		out = append(out, TrendPoint{Month: k.month, Category: k.cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}
