package config

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/procurement-tools/procdash/internal/common"
)

// Store persists the dashboard configuration in an embedded SQLite database.
// Settings are stored as one JSON document; column maps and the category mapping
// are normalized so individual edits are single upserts.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const migration = `
CREATE TABLE IF NOT EXISTS settings (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS column_mapping (
	sheet         TEXT NOT NULL,
	field         TEXT NOT NULL,
	source_column TEXT NOT NULL,
	PRIMARY KEY (sheet, field)
);
CREATE TABLE IF NOT EXISTS category_mapping (
	key_field  TEXT PRIMARY KEY,
	category   TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Open opens (creating if necessary) the config database at path.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open config db")
	}
	// the store is hit from one request at a time; a single connection avoids
	// SQLITE_BUSY on concurrent writes
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, migration); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "migrate config db")
	}
	logger.Info("config store opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the persisted configuration overlaid on the defaults.
func (s *Store) Load(ctx context.Context) (*Config, error) {
	cfg := Default()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = 'settings'`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// first run, keep defaults
	case err != nil:
		return nil, common.WrapError(err, "load settings")
	default:
		if err := json.Unmarshal([]byte(raw), &cfg.Settings); err != nil {
			return nil, common.NewAppError("CONFIG_CORRUPT", "stored settings are not valid JSON", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT sheet, field, source_column FROM column_mapping`)
	if err != nil {
		return nil, common.WrapError(err, "load column mapping")
	}
	defer rows.Close()
	for rows.Next() {
		var sheet, field, source string
		if err := rows.Scan(&sheet, &field, &source); err != nil {
			return nil, err
		}
		if cfg.ColumnMaps[sheet] == nil {
			cfg.ColumnMaps[sheet] = map[string]string{}
		}
		cfg.ColumnMaps[sheet][field] = source
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.db.QueryContext(ctx, `SELECT key_field, category FROM category_mapping`)
	if err != nil {
		return nil, common.WrapError(err, "load category mapping")
	}
	defer crows.Close()
	for crows.Next() {
		var key, category string
		if err := crows.Scan(&key, &category); err != nil {
			return nil, err
		}
		cfg.CategoryMapping[key] = category
	}
	return cfg, crows.Err()
}

// SaveSettings replaces the persisted settings document.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES ('settings', ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`, string(raw))
	return common.WrapError(err, "save settings")
}

// SaveColumnMap replaces the column map of one sheet.
func (s *Store) SaveColumnMap(ctx context.Context, sheet string, mapping map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM column_mapping WHERE sheet = ?`, sheet); err != nil {
		return common.WrapError(err, "clear column mapping")
	}
	for field, source := range mapping {
		if source == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO column_mapping (sheet, field, source_column) VALUES (?, ?, ?)`,
			sheet, field, source); err != nil {
			return common.WrapError(err, fmt.Sprintf("save mapping for %s.%s", sheet, field))
		}
	}
	return tx.Commit()
}

// UpsertCategoryEntries merges entries into the category mapping, last write wins.
func (s *Store) UpsertCategoryEntries(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, category := range entries {
		if key == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_mapping (key_field, category, updated_at) VALUES (?, ?, datetime('now'))
			 ON CONFLICT(key_field) DO UPDATE SET category = excluded.category, updated_at = excluded.updated_at`,
			key, category); err != nil {
			return common.WrapError(err, "upsert category mapping")
		}
	}
	return tx.Commit()
}

// ReplaceCategoryMapping swaps the whole category mapping for the given one.
func (s *Store) ReplaceCategoryMapping(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_mapping`); err != nil {
		return common.WrapError(err, "clear category mapping")
	}
	for key, category := range entries {
		if key == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_mapping (key_field, category) VALUES (?, ?)`,
			key, category); err != nil {
			return common.WrapError(err, "replace category mapping")
		}
	}
	return tx.Commit()
}

// SaveAll persists a complete configuration, used by config import.
func (s *Store) SaveAll(ctx context.Context, cfg *Config) error {
	if err := s.SaveSettings(ctx, cfg.Settings); err != nil {
		return err
	}
	for sheet, mapping := range cfg.ColumnMaps {
		if err := s.SaveColumnMap(ctx, sheet, mapping); err != nil {
			return err
		}
	}
	return s.ReplaceCategoryMapping(ctx, cfg.CategoryMapping)
}
