package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for sales and their items. Callers
// hand it fully computed entities.
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSaleByID(ctx context.Context, id uuid.UUID) (*Sale, bool, error)
	UpdateSale(ctx context.Context, sale *Sale) error
	CreateItems(ctx context.Context, items []*SaleItem) error
	UpdateItems(ctx context.Context, items []*SaleItem) error
	GetItemsBySaleID(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error)
}

// Transactor runs fn inside a single transaction. fn's error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
