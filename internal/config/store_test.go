package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurement-tools/procdash/internal/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "config.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := Settings{
		DateFormat:             "dd-mm-yyyy",
		PROpenStatuses:         []string{"Open"},
		POOpenDeliveryStatuses: []string{"Partial"},
		RequireLinkedPO:        false,
		CategoryColors:         map[string]string{"MRO": "#112233"},
	}
	require.NoError(t, s.SaveSettings(ctx, want))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dd-mm-yyyy", cfg.Settings.DateFormat)
	assert.Equal(t, []string{"Open"}, cfg.Settings.PROpenStatuses)
	assert.Equal(t, []string{"Partial"}, cfg.Settings.POOpenDeliveryStatuses)
	assert.False(t, cfg.Settings.RequireLinkedPO)
	// stored colors overlay the default palette
	assert.Equal(t, "#112233", cfg.Settings.CategoryColors["MRO"])
	assert.Equal(t, Default().Settings.CategoryColors["Capex"], cfg.Settings.CategoryColors["Capex"])

	// saving again replaces rather than duplicates
	want.DateFormat = "yyyy-mm-dd"
	require.NoError(t, s.SaveSettings(ctx, want))
	cfg, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "yyyy-mm-dd", cfg.Settings.DateFormat)
}

func TestSaveColumnMapReplacesSheet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveColumnMap(ctx, schema.SheetPRs, map[string]string{
		schema.FieldPRNumber: "Req No",
		schema.FieldPRDate:   "Created",
	}))
	require.NoError(t, s.SaveColumnMap(ctx, schema.SheetPOs, map[string]string{
		schema.FieldPONumber: "Order",
	}))

	// a later save drops entries absent from the new map, and empty sources
	require.NoError(t, s.SaveColumnMap(ctx, schema.SheetPRs, map[string]string{
		schema.FieldPRNumber: "Requisition",
		schema.FieldPRStatus: "",
	}))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{schema.FieldPRNumber: "Requisition"}, cfg.ColumnMaps[schema.SheetPRs])
	assert.Equal(t, map[string]string{schema.FieldPONumber: "Order"}, cfg.ColumnMaps[schema.SheetPOs])
}

func TestUpsertCategoryEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCategoryEntries(ctx, map[string]string{
		"MG-1": "MRO",
		"MG-2": "Services",
	}))
	// last write wins, blank keys are dropped
	require.NoError(t, s.UpsertCategoryEntries(ctx, map[string]string{
		"MG-1": "Capex",
		"":     "MRO",
	}))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MG-1": "Capex",
		"MG-2": "Services",
	}, cfg.CategoryMapping)
}

func TestReplaceCategoryMapping(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCategoryEntries(ctx, map[string]string{"MG-old": "MRO"}))
	require.NoError(t, s.ReplaceCategoryMapping(ctx, map[string]string{"MG-new": "PCM"}))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MG-new": "PCM"}, cfg.CategoryMapping)
}

func TestSaveAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := Default()
	in.Settings.RequireLinkedPO = false
	in.ColumnMaps[schema.SheetPRs][schema.FieldPRNumber] = "Req No"
	in.CategoryMapping["MG-7"] = "Services"
	require.NoError(t, s.SaveAll(ctx, in))

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, cfg)
}
