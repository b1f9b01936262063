package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the aggregate root of one sales transaction. Its totals are a
// cached projection of its items and must be refreshed with SetTotals (or
// AttachItems) whenever the item set changes.
type Sale struct {
	ID         uuid.UUID
	Number     int64
	CreatedAt  time.Time
	CustomerID int64
	BranchID   int64
	Items      []*SaleItem

	total              decimal.Decimal
	totalDiscount      decimal.Decimal
	totalAfterDiscount decimal.Decimal
	cancelled          bool
}

// NewSale creates a sale stamped with the current time. It does not validate.
func NewSale(customerID, branchID int64, cancelled bool) *Sale {
	return &Sale{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		CustomerID: customerID,
		BranchID:   branchID,
		cancelled:  cancelled,
	}
}

// Total is the gross value of all items.
func (s *Sale) Total() decimal.Decimal { return s.total }

// TotalDiscount is the summed discount of all items.
func (s *Sale) TotalDiscount() decimal.Decimal { return s.totalDiscount }

// TotalAfterDiscount is the summed net value of all items.
func (s *Sale) TotalAfterDiscount() decimal.Decimal { return s.totalAfterDiscount }

// SetTotals recomputes the three aggregate totals from items.
func (s *Sale) SetTotals(items []*SaleItem) error {
	if items == nil {
		return fmt.Errorf("%w: sale items are required to compute totals", ErrMissingArgument)
	}

	total, discount, after := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
		discount = discount.Add(item.LineDiscount())
		after = after.Add(item.LineTotalAfterDiscount())
	}

	s.total = total
	s.totalDiscount = discount
	s.totalAfterDiscount = after
	return nil
}

// AttachItems makes items the sale's item collection, points each one back
// at the sale and refreshes the totals.
func (s *Sale) AttachItems(items []*SaleItem) error {
	if err := s.SetTotals(items); err != nil {
		return err
	}
	for _, item := range items {
		item.SaleID = s.ID
	}
	s.Items = items
	return nil
}

// IsCancelled reports whether the sale has been cancelled.
func (s *Sale) IsCancelled() bool {
	return s.cancelled
}

// Cancel marks the sale as cancelled and reports whether the state changed.
func (s *Sale) Cancel() bool {
	if s.cancelled {
		return false
	}
	s.cancelled = true
	return true
}

// Validate runs the sale rules and the item rules of every attached item.
func (s *Sale) Validate() ValidationResult {
	errs := saleRules.Evaluate(s, "")
	for idx, item := range s.Items {
		errs = append(errs, itemRules.Evaluate(item, fmt.Sprintf("items[%d].", idx))...)
	}
	return result(errs)
}
