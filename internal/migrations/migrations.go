package migrations

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/jmoiron/sqlx"
)

// Migration is one schema step. Statements are keyed by database driver
// because Postgres and SQLite disagree on identity columns and numeric types.
type Migration struct {
	Version    string
	Statements map[string][]string
}

// All lists every schema migration. Order does not matter; Run sorts by version.
var All = []Migration{
	{
		Version: "1.0.0",
		Statements: map[string][]string{
			"pgx": {
				`CREATE TABLE IF NOT EXISTS sales (
					id UUID PRIMARY KEY,
					sale_number BIGINT GENERATED BY DEFAULT AS IDENTITY UNIQUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					customer_id BIGINT NOT NULL,
					branch_id BIGINT NOT NULL,
					total NUMERIC(18,2) NOT NULL DEFAULT 0,
					total_discount NUMERIC(18,2) NOT NULL DEFAULT 0,
					total_after_discount NUMERIC(18,2) NOT NULL DEFAULT 0,
					cancelled BOOLEAN NOT NULL DEFAULT FALSE
				);`,
				`CREATE TABLE IF NOT EXISTS sale_items (
					id UUID PRIMARY KEY,
					seq BIGINT GENERATED BY DEFAULT AS IDENTITY UNIQUE,
					sale_id UUID NOT NULL REFERENCES sales(id),
					product_id BIGINT NOT NULL,
					quantity INTEGER NOT NULL,
					unit_price NUMERIC(18,2) NOT NULL,
					cancelled BOOLEAN NOT NULL DEFAULT FALSE
				);`,
			},
			"sqlite": {
				`CREATE TABLE IF NOT EXISTS sales (
					sale_number INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT NOT NULL UNIQUE,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					customer_id INTEGER NOT NULL,
					branch_id INTEGER NOT NULL,
					total TEXT NOT NULL DEFAULT '0',
					total_discount TEXT NOT NULL DEFAULT '0',
					total_after_discount TEXT NOT NULL DEFAULT '0',
					cancelled BOOLEAN NOT NULL DEFAULT 0
				);`,
				`CREATE TABLE IF NOT EXISTS sale_items (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT NOT NULL UNIQUE,
					sale_id TEXT NOT NULL REFERENCES sales(id),
					product_id INTEGER NOT NULL,
					quantity INTEGER NOT NULL,
					unit_price TEXT NOT NULL,
					cancelled BOOLEAN NOT NULL DEFAULT 0
				);`,
			},
		},
	},
	{
		Version: "1.1.0",
		Statements: map[string][]string{
			"pgx":    {`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items(sale_id);`},
			"sqlite": {`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items(sale_id);`},
		},
	},
}

const schemaVersionTable = `CREATE TABLE IF NOT EXISTS schema_version (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Run applies every migration newer than the recorded schema version.
func Run(ctx context.Context, db *sqlx.DB) error {
	return Apply(ctx, db, All)
}

// Apply runs the given migrations against db, skipping those already recorded.
func Apply(ctx context.Context, db *sqlx.DB, migrations []Migration) error {
	if _, err := db.ExecContext(ctx, schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return err
	}

	ordered, err := sortByVersion(migrations)
	if err != nil {
		return err
	}

	driver := db.DriverName()
	for _, m := range ordered {
		if current != nil && !m.version.GreaterThan(current) {
			continue
		}

		stmts, ok := m.Statements[driver]
		if !ok {
			return fmt.Errorf("migration %s has no statements for driver %q", m.Version, driver)
		}

		if err := applyOne(ctx, db, m.Migration, stmts); err != nil {
			return err
		}
	}

	return nil
}

// CurrentVersion returns the highest applied schema version, or nil for a fresh database.
func CurrentVersion(ctx context.Context, db *sqlx.DB) (*semver.Version, error) {
	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_version`); err != nil {
		return nil, fmt.Errorf("read schema versions: %w", err)
	}

	var current *semver.Version
	for _, raw := range applied {
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid recorded schema version %q: %w", raw, err)
		}
		if current == nil || v.GreaterThan(current) {
			current = v
		}
	}

	return current, nil
}

type versioned struct {
	Migration
	version *semver.Version
}

func sortByVersion(migrations []Migration) ([]versioned, error) {
	out := make([]versioned, 0, len(migrations))
	for _, m := range migrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version %q: %w", m.Version, err)
		}
		out = append(out, versioned{Migration: m, version: v})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version.LessThan(out[j].version) })
	return out, nil
}

func applyOne(ctx context.Context, db *sqlx.DB, m Migration, stmts []string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Version, err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Version, err)
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.Version); err != nil {
		return fmt.Errorf("record migration %s: %w", m.Version, err)
	}

	return tx.Commit()
}
