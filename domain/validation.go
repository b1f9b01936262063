package domain

import "github.com/shopspring/decimal"

// Rule is a predicate paired with the message reported when it fails.
type Rule[T any] struct {
	Field   string
	Message string
	Valid   func(T) bool
}

// RuleSet is an ordered collection of rules over T.
type RuleSet[T any] []Rule[T]

// Evaluate runs every rule against v and collects all failures. prefix is
// prepended to each field name so nested collections report their position.
func (rs RuleSet[T]) Evaluate(v T, prefix string) []FieldError {
	var errs []FieldError
	for _, rule := range rs {
		if !rule.Valid(v) {
			errs = append(errs, FieldError{Field: prefix + rule.Field, Message: rule.Message})
		}
	}
	return errs
}

func result(errs []FieldError) ValidationResult {
	if errs == nil {
		errs = []FieldError{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// MoneyScale is the number of decimal places prices are stored with.
const MoneyScale = 2

// FitsMoneyScale reports whether d carries no digits past MoneyScale, so it
// survives storage unchanged.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

var itemRules = RuleSet[*SaleItem]{
	{
		Field:   "product_id",
		Message: "Product ID cannot be empty.",
		Valid:   func(i *SaleItem) bool { return i.ProductID != 0 },
	},
	{
		Field:   "quantity",
		Message: "Quantity must be greater than zero.",
		Valid:   func(i *SaleItem) bool { return i.Quantity > 0 },
	},
	{
		Field:   "quantity",
		Message: "Cannot sell more than 20 identical items.",
		Valid:   func(i *SaleItem) bool { return i.Quantity <= MaxQuantityPerProduct },
	},
	{
		Field:   "unit_price",
		Message: "Unit price must be greater than zero.",
		Valid:   func(i *SaleItem) bool { return i.UnitPrice.GreaterThan(decimal.Zero) },
	},
	{
		Field:   "unit_price",
		Message: "Unit price cannot have more than 2 decimal places.",
		Valid:   func(i *SaleItem) bool { return FitsMoneyScale(i.UnitPrice) },
	},
	{
		Field:   "discount_percentage",
		Message: "Discount must be between 0% and 50%.",
		Valid: func(i *SaleItem) bool {
			d := i.DiscountPercentage()
			return !d.IsNegative() && d.LessThanOrEqual(maxDiscountCap)
		},
	},
}

var saleRules = RuleSet[*Sale]{
	{
		Field:   "customer_id",
		Message: "Customer ID cannot be empty.",
		Valid:   func(s *Sale) bool { return s.CustomerID != 0 },
	},
	{
		Field:   "branch_id",
		Message: "Branch ID cannot be empty.",
		Valid:   func(s *Sale) bool { return s.BranchID != 0 },
	},
	{
		Field:   "items",
		Message: "Sale must contain at least one item.",
		Valid:   func(s *Sale) bool { return len(s.Items) > 0 },
	},
	{
		Field:   "items",
		Message: "All items must have a quantity greater than zero.",
		Valid: func(s *Sale) bool {
			for _, item := range s.Items {
				if item.Quantity <= 0 {
					return false
				}
			}
			return true
		},
	},
}
