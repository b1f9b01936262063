package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxQuantityPerProduct is the largest quantity of identical items a single line may carry.
const MaxQuantityPerProduct = 20

var (
	noDiscount     = decimal.Zero
	tenPercent     = decimal.RequireFromString("0.10")
	twentyPercent  = decimal.RequireFromString("0.20")
	maxDiscountCap = decimal.RequireFromString("0.50")
)

// DiscountFor maps a line quantity to its discount rate.
//
//	1-3   -> 0%
//	4-9   -> 10%
//	10-20 -> 20%
//	>20   -> ErrDomainRuleViolation
func DiscountFor(quantity int) (decimal.Decimal, error) {
	switch {
	case quantity > MaxQuantityPerProduct:
		return decimal.Zero, fmt.Errorf("%w: cannot sell more than %d identical items", ErrDomainRuleViolation, MaxQuantityPerProduct)
	case quantity >= 10:
		return twentyPercent, nil
	case quantity >= 4:
		return tenPercent, nil
	default:
		return noDiscount, nil
	}
}
