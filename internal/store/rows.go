package store

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesdesk/m/domain"
)

type saleRow struct {
	ID                 uuid.UUID       `db:"id"`
	Number             int64           `db:"sale_number"`
	CreatedAt          time.Time       `db:"created_at"`
	CustomerID         int64           `db:"customer_id"`
	BranchID           int64           `db:"branch_id"`
	Total              decimal.Decimal `db:"total"`
	TotalDiscount      decimal.Decimal `db:"total_discount"`
	TotalAfterDiscount decimal.Decimal `db:"total_after_discount"`
	Cancelled          bool            `db:"cancelled"`
}

var saleColumns = []any{
	"id", "sale_number", "created_at", "customer_id", "branch_id",
	"total", "total_discount", "total_after_discount", "cancelled",
}

func (r saleRow) toDomain() *domain.Sale {
	sale := domain.NewSale(r.CustomerID, r.BranchID, r.Cancelled)
	sale.ID = r.ID
	sale.Number = r.Number
	sale.CreatedAt = r.CreatedAt.UTC()
	return sale
}

// saleRecord holds the columns written on insert and update. Totals are the
// sale's cached projection; sale_number is assigned by the database.
func saleRecord(s *domain.Sale) goqu.Record {
	return goqu.Record{
		"customer_id":          s.CustomerID,
		"branch_id":            s.BranchID,
		"total":                s.Total().String(),
		"total_discount":       s.TotalDiscount().String(),
		"total_after_discount": s.TotalAfterDiscount().String(),
		"cancelled":            s.IsCancelled(),
	}
}

type itemRow struct {
	ID        uuid.UUID       `db:"id"`
	SaleID    uuid.UUID       `db:"sale_id"`
	ProductID int64           `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Cancelled bool            `db:"cancelled"`
}

var itemColumns = []any{"id", "sale_id", "product_id", "quantity", "unit_price", "cancelled"}

func (r itemRow) toDomain() (*domain.SaleItem, error) {
	item, err := domain.NewSaleItem(r.ProductID, r.Quantity, r.UnitPrice, r.Cancelled)
	if err != nil {
		return nil, err
	}
	item.ID = r.ID
	item.SaleID = r.SaleID
	return item, nil
}

func itemRecord(i *domain.SaleItem) goqu.Record {
	return goqu.Record{
		"sale_id":    i.SaleID.String(),
		"product_id": i.ProductID,
		"quantity":   i.Quantity,
		"unit_price": i.UnitPrice.String(),
		"cancelled":  i.IsCancelled(),
	}
}
