// Package store persists sales and sale items with sqlx, building its SQL
// with goqu so the same code runs on Postgres and SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"salesdesk/m/domain"
)

const (
	salesTable = "sales"
	itemsTable = "sale_items"
)

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Store is the SQL-backed sales repository. Its own methods run outside a
// transaction; WithinTx hands out a repository bound to one.
type Store struct {
	*repo
	db *sqlx.DB
}

var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Transactor = (*Store)(nil)
)

// New wraps db, picking the goqu dialect from its driver name.
func New(db *sqlx.DB) (*Store, error) {
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	return &Store{repo: &repo{q: db, dialect: dialect}, db: db}, nil
}

func dialectFor(driver string) (goqu.DialectWrapper, error) {
	switch driver {
	case "pgx", "postgres":
		return goqu.Dialect("postgres"), nil
	case "sqlite", "sqlite3":
		return goqu.Dialect("sqlite3"), nil
	default:
		return goqu.DialectWrapper{}, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// WithinTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&repo{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type repo struct {
	q       querier
	dialect goqu.DialectWrapper
}

func (r *repo) exec(ctx context.Context, b interface {
	ToSQL() (string, []any, error)
}) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.q.ExecContext(ctx, query, args...)
}
