package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"salesdesk/m/domain"
)

// CreateItems inserts items in one statement.
func (r *repo) CreateItems(ctx context.Context, items []*domain.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]any, 0, len(items))
	for _, item := range items {
		record := itemRecord(item)
		record["id"] = item.ID.String()
		rows = append(rows, record)
	}

	if _, err := r.exec(ctx, r.dialect.Insert(itemsTable).Prepared(true).Rows(rows...)); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

// UpdateItems overwrites existing items. Every item must already exist for
// its sale, otherwise ErrNotFound is returned.
func (r *repo) UpdateItems(ctx context.Context, items []*domain.SaleItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: the list of sale items cannot be empty", domain.ErrMissingArgument)
	}

	for _, item := range items {
		res, err := r.exec(ctx, r.dialect.Update(itemsTable).Prepared(true).
			Set(itemRecord(item)).
			Where(
				goqu.C("id").Eq(item.ID.String()),
				goqu.C("sale_id").Eq(item.SaleID.String()),
			))
		if err != nil {
			return fmt.Errorf("update sale item %s: %w", item.ID, err)
		}
		if err := expectAffected(res, 1, fmt.Sprintf("sale item %s", item.ID)); err != nil {
			return err
		}
	}

	return nil
}

// GetItemsBySaleID returns the sale's items in insertion order.
func (r *repo) GetItemsBySaleID(ctx context.Context, saleID uuid.UUID) ([]*domain.SaleItem, error) {
	query, args, err := r.dialect.From(itemsTable).Prepared(true).
		Select(itemColumns...).
		Where(goqu.C("sale_id").Eq(saleID.String())).
		Order(goqu.C("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []itemRow
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select items of sale %s: %w", saleID, err)
	}

	items := make([]*domain.SaleItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("load sale item %s: %w", row.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}
