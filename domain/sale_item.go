package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is one product line of a sale. Discounts and totals are derived
// from Quantity and UnitPrice on every call and never stored.
type SaleItem struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal

	cancelled bool
}

// NewSaleItem builds a line item. It rejects quantities above MaxQuantityPerProduct;
// every other rule is left to Validate.
func NewSaleItem(productID int64, quantity int, unitPrice decimal.Decimal, cancelled bool) (*SaleItem, error) {
	if quantity > MaxQuantityPerProduct {
		return nil, fmt.Errorf("%w: cannot sell more than %d identical items, got %d", ErrDomainRuleViolation, MaxQuantityPerProduct, quantity)
	}

	return &SaleItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		cancelled: cancelled,
	}, nil
}

// DiscountPercentage returns the quantity tier rate. Quantities past the cap
// yield zero; construction and validation keep them out.
func (i *SaleItem) DiscountPercentage() decimal.Decimal {
	rate, err := DiscountFor(i.Quantity)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

// LineTotal is UnitPrice x Quantity before discount.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineDiscount is the discount amount for the whole line.
func (i *SaleItem) LineDiscount() decimal.Decimal {
	return i.LineTotal().Mul(i.DiscountPercentage())
}

// LineTotalAfterDiscount is the line total with the tier discount applied.
func (i *SaleItem) LineTotalAfterDiscount() decimal.Decimal {
	return i.LineTotal().Mul(decimal.NewFromInt(1).Sub(i.DiscountPercentage()))
}

// UnitDiscount is the discount amount per unit.
func (i *SaleItem) UnitDiscount() (decimal.Decimal, error) {
	return i.perUnit(i.LineDiscount())
}

// UnitPriceAfterDiscount is the effective price paid per unit.
func (i *SaleItem) UnitPriceAfterDiscount() (decimal.Decimal, error) {
	return i.perUnit(i.LineTotalAfterDiscount())
}

func (i *SaleItem) perUnit(amount decimal.Decimal) (decimal.Decimal, error) {
	if i.Quantity == 0 {
		return decimal.Zero, fmt.Errorf("%w: item %s has zero quantity", ErrDivisionByZero, i.ID)
	}
	return amount.Div(decimal.NewFromInt(int64(i.Quantity))), nil
}

// IsCancelled reports whether the item has been cancelled.
func (i *SaleItem) IsCancelled() bool {
	return i.cancelled
}

// Cancel marks the item as cancelled. It reports whether the call changed
// the state; cancelling twice is a no-op.
func (i *SaleItem) Cancel() bool {
	if i.cancelled {
		return false
	}
	i.cancelled = true
	return true
}

// Validate runs the item rules without mutating the item.
func (i *SaleItem) Validate() ValidationResult {
	return result(itemRules.Evaluate(i, ""))
}
