// Package dashboard wires ingestion, mapping, classification, filtering and
// reporting into the views the HTTP surface serves. Every user interaction
// recomputes the affected views synchronously; the tables are small enough that
// nothing is cached beyond the session's parsed workbook.
package dashboard

import (
	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
	"github.com/procurement-tools/procdash/internal/filter"
	"github.com/procurement-tools/procdash/internal/ingest"
	"github.com/procurement-tools/procdash/internal/mapping"
	"github.com/procurement-tools/procdash/internal/report"
	"github.com/procurement-tools/procdash/internal/rules"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Snapshot is one fully derived view of a session's workbook under the current
// configuration: columns mapped, categories resolved, open flags written. It is
// rebuilt whenever the configuration changes and filtered per request.
type Snapshot struct {
	PRs *table.Table
	POs *table.Table

	MissingPRFields []string
	MissingPOFields []string
	SheetMapping    map[string]string
	UnresolvedPRs   int
	UnresolvedPOs   int
	Warnings        []string
}

// Service derives snapshots and views.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Build derives a snapshot from a parsed workbook and the current configuration.
func (s *Service) Build(wb *ingest.Workbook, cfg *config.Config) *Snapshot {
	snap := &Snapshot{Warnings: append([]string(nil), wb.Warnings...)}

	prSheet, _ := schema.SheetFor(schema.SheetPRs)
	poSheet, _ := schema.SheetFor(schema.SheetPOs)
	snap.PRs, snap.MissingPRFields = mapping.Apply(wb.PRs, prSheet, cfg.ColumnMap(schema.SheetPRs))
	snap.POs, snap.MissingPOFields = mapping.Apply(wb.POs, poSheet, cfg.ColumnMap(schema.SheetPOs))

	sheetMapping, mapWarnings := ingest.ParseCategoryMapping(wb.CategoryMapping)
	snap.SheetMapping = sheetMapping
	snap.Warnings = append(snap.Warnings, mapWarnings...)

	resolver := mapping.Resolver{SheetMapping: sheetMapping, AppMapping: cfg.CategoryMapping}
	snap.UnresolvedPRs = resolver.Resolve(snap.PRs)
	snap.UnresolvedPOs = resolver.Resolve(snap.POs)

	classifier := rules.Classifier{
		PROpenStatuses:         cfg.Settings.PROpenStatuses,
		POOpenDeliveryStatuses: cfg.Settings.POOpenDeliveryStatuses,
		RequireLinkedPO:        cfg.Settings.RequireLinkedPO,
	}
	classifier.FlagOpenPRs(snap.PRs, rules.LinkedPRNumbers(snap.POs))
	classifier.FlagOpenDeliveries(snap.POs)

	s.logger.Debug("snapshot built",
		zap.Int("pr_rows", snap.PRs.Len()),
		zap.Int("po_rows", snap.POs.Len()),
		zap.Int("unresolved_prs", snap.UnresolvedPRs),
		zap.Int("unresolved_pos", snap.UnresolvedPOs),
	)
	return snap
}

// FilterOptions are the distinct values the filter widgets offer.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Vendors    []string `json:"vendors"`
	Buyers     []string `json:"buyers"`
	PRStatuses []string `json:"pr_statuses"`
	POStatuses []string `json:"po_statuses"`
}

// View is the dashboard payload for one filter selection.
type View struct {
	Metrics    report.Metrics         `json:"metrics"`
	Categories []report.CategoryCount `json:"categories"`
	PRTrend    []report.TrendPoint    `json:"pr_trend"`
	POTrend    []report.TrendPoint    `json:"po_trend"`
	Colors     map[string]string      `json:"category_colors"`
	Options    FilterOptions          `json:"filter_options"`
}

// Dashboard computes the KPI/chart view over the filtered subset of snap.
func (s *Service) Dashboard(snap *Snapshot, sel filter.Selection, cfg *config.Config) View {
	prs := sel.PRs(snap.PRs)
	pos := sel.POs(snap.POs)
	format := table.DateFormat(cfg.Settings.DateFormat)

	buyers := snap.PRs.DistinctValues(schema.FieldBuyer)
	for _, b := range snap.POs.DistinctValues(schema.FieldBuyer) {
		if !contains(buyers, b) {
			buyers = append(buyers, b)
		}
	}

	return View{
		Metrics:    report.ComputeMetrics(prs, pos),
		Categories: report.CountByCategory(prs, pos),
		PRTrend:    report.MonthlyTrend(prs, schema.FieldPRDate, format),
		POTrend:    report.MonthlyTrend(pos, schema.FieldPODate, format),
		Colors:     cfg.Settings.CategoryColors,
		Options: FilterOptions{
			Categories: schema.Categories(),
			Vendors:    snap.POs.DistinctValues(schema.FieldVendor),
			Buyers:     buyers,
			PRStatuses: snap.PRs.DistinctValues(schema.FieldPRStatus),
			POStatuses: snap.POs.DistinctValues(schema.FieldPOStatus),
		},
	}
}

// Health computes the data-health report over the unfiltered snapshot.
func (s *Service) Health(snap *Snapshot, cfg *config.Config) report.Health {
	format := table.DateFormat(cfg.Settings.DateFormat)
	h := report.Health{
		Sheets: []report.SheetHealth{
			report.SheetReport(schema.SheetPRs, snap.PRs, snap.MissingPRFields, format),
			report.SheetReport(schema.SheetPOs, snap.POs, snap.MissingPOFields, format),
		},
		Warnings: snap.Warnings,
	}

	merged := map[string]string{}
	for k, v := range cfg.CategoryMapping {
		merged[k] = v
	}
	for k, v := range snap.SheetMapping {
		merged[k] = v
	}
	h.MappingEntries, h.MappingCoverage = report.MappingCoverage(merged, snap.PRs, snap.POs)
	return h
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
