package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"salesdesk/m/domain"
)

// CreateSale inserts the sale and reads back the sale number the database assigned.
func (r *repo) CreateSale(ctx context.Context, sale *domain.Sale) error {
	record := saleRecord(sale)
	record["id"] = sale.ID.String()
	record["created_at"] = sale.CreatedAt

	if _, err := r.exec(ctx, r.dialect.Insert(salesTable).Prepared(true).Rows(record)); err != nil {
		return fmt.Errorf("insert sale %s: %w", sale.ID, err)
	}

	query, args, err := r.dialect.From(salesTable).Prepared(true).
		Select("sale_number").
		Where(goqu.C("id").Eq(sale.ID.String())).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := r.q.GetContext(ctx, &sale.Number, query, args...); err != nil {
		return fmt.Errorf("read sale number for %s: %w", sale.ID, err)
	}

	return nil
}

// GetSaleByID loads a sale together with its items and recomputes its totals.
// A missing sale is reported as found == false with a nil error.
func (r *repo) GetSaleByID(ctx context.Context, id uuid.UUID) (*domain.Sale, bool, error) {
	query, args, err := r.dialect.From(salesTable).Prepared(true).
		Select(saleColumns...).
		Where(goqu.C("id").Eq(id.String())).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	var row saleRow
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select sale %s: %w", id, err)
	}

	items, err := r.GetItemsBySaleID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	sale := row.toDomain()
	if err := sale.AttachItems(items); err != nil {
		return nil, false, err
	}

	return sale, true, nil
}

// UpdateSale overwrites the mutable columns of an existing sale.
func (r *repo) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	res, err := r.exec(ctx, r.dialect.Update(salesTable).Prepared(true).
		Set(saleRecord(sale)).
		Where(goqu.C("id").Eq(sale.ID.String())))
	if err != nil {
		return fmt.Errorf("update sale %s: %w", sale.ID, err)
	}

	return expectAffected(res, 1, fmt.Sprintf("sale %s", sale.ID))
}

func expectAffected(res sql.Result, want int64, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", what, err)
	}
	if n != want {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
