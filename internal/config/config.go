// Package config holds the dashboard configuration: display settings, status
// rules, per-sheet column maps and the editable category mapping. The
// configuration outlives sessions and is persisted in an embedded SQLite file.
package config

import (
	"github.com/procurement-tools/procdash/internal/schema"
)

// Settings are the user-tunable display and classification settings.
type Settings struct {
	DateFormat             string            `json:"date_format"`
	PROpenStatuses         []string          `json:"pr_open_statuses"`
	POOpenDeliveryStatuses []string          `json:"po_open_delivery_statuses"`
	RequireLinkedPO        bool              `json:"require_linked_po"`
	CategoryColors         map[string]string `json:"category_colors"`
}

// Config is the full persisted dashboard configuration.
type Config struct {
	Settings        Settings                     `json:"settings"`
	ColumnMaps      map[string]map[string]string `json:"column_mapping"`
	CategoryMapping map[string]string            `json:"category_mapping"`
}

// Default returns the configuration used before the user saves anything.
func Default() *Config {
	return &Config{
		Settings: Settings{
			DateFormat:             "auto",
			PROpenStatuses:         []string{"Open", "Pending", "In Progress"},
			POOpenDeliveryStatuses: []string{"Open", "Partial", "Delayed"},
			RequireLinkedPO:        true,
			CategoryColors: map[string]string{
				string(schema.MRO):      "#2F80ED",
				string(schema.Services): "#20B2AA",
				string(schema.Capex):    "#F2994A",
				string(schema.PCM):      "#8E44AD",
			},
		},
		ColumnMaps: map[string]map[string]string{
			schema.SheetPRs: {},
			schema.SheetPOs: {},
		},
		CategoryMapping: map[string]string{},
	}
}

// ColumnMap returns the saved column map for a sheet, never nil.
func (c *Config) ColumnMap(sheet string) map[string]string {
	if c.ColumnMaps == nil {
		return map[string]string{}
	}
	if m, ok := c.ColumnMaps[sheet]; ok && m != nil {
		return m
	}
	return map[string]string{}
}

// Clone returns a deep copy, so handlers can mutate a snapshot safely.
func (c *Config) Clone() *Config {
	out := &Config{
		Settings: Settings{
			DateFormat:             c.Settings.DateFormat,
			PROpenStatuses:         append([]string(nil), c.Settings.PROpenStatuses...),
			POOpenDeliveryStatuses: append([]string(nil), c.Settings.POOpenDeliveryStatuses...),
			RequireLinkedPO:        c.Settings.RequireLinkedPO,
			CategoryColors:         map[string]string{},
		},
		ColumnMaps:      map[string]map[string]string{},
		CategoryMapping: map[string]string{},
	}
	for k, v := range c.Settings.CategoryColors {
		out.Settings.CategoryColors[k] = v
	}
	for sheet, m := range c.ColumnMaps {
		cm := map[string]string{}
		for k, v := range m {
			cm[k] = v
		}
		out.ColumnMaps[sheet] = cm
	}
	for k, v := range c.CategoryMapping {
		out.CategoryMapping[k] = v
	}
	return out
}
