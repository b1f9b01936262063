package sales

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesdesk/m/domain"
)

// ItemInput is one line of a new sale.
type ItemInput struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateSaleCommand registers a new sale.
type CreateSaleCommand struct {
	CustomerID int64
	BranchID   int64
	Items      []ItemInput
}

// UpdateItemInput is one line of an update. A zero ID adds a new item.
type UpdateItemInput struct {
	ID        uuid.UUID
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Cancelled bool
}

// UpdateSaleCommand overwrites the header of a sale and the listed items, and
// carries the cancellation flags the caller set.
type UpdateSaleCommand struct {
	ID         uuid.UUID
	CustomerID int64
	BranchID   int64
	Cancelled  bool
	Items      []UpdateItemInput
}

type line struct {
	quantity  int
	unitPrice decimal.Decimal
}

var lineRules = domain.RuleSet[line]{
	{
		Field:   "quantity",
		Message: "Quantity must be greater than 0.",
		Valid:   func(l line) bool { return l.quantity > 0 },
	},
	{
		Field:   "quantity",
		Message: "Cannot sell more than 20 identical items.",
		Valid:   func(l line) bool { return l.quantity <= domain.MaxQuantityPerProduct },
	},
	{
		Field:   "unit_price",
		Message: "Unit price must be greater than zero.",
		Valid:   func(l line) bool { return l.unitPrice.GreaterThan(decimal.Zero) },
	},
	{
		Field:   "unit_price",
		Message: "Unit price cannot have more than 2 decimal places.",
		Valid:   func(l line) bool { return domain.FitsMoneyScale(l.unitPrice) },
	},
}

type header struct {
	customerID int64
	branchID   int64
	items      int
}

var headerRules = domain.RuleSet[header]{
	{
		Field:   "branch_id",
		Message: "BranchId is required.",
		Valid:   func(h header) bool { return h.branchID != 0 },
	},
	{
		Field:   "customer_id",
		Message: "CustomerId is required.",
		Valid:   func(h header) bool { return h.customerID != 0 },
	},
	{
		Field:   "items",
		Message: "At least one item must be provided in the sale.",
		Valid:   func(h header) bool { return h.items > 0 },
	},
}

// Validate reports every rule the command breaks.
func (c CreateSaleCommand) Validate() error {
	errs := headerRules.Evaluate(header{c.CustomerID, c.BranchID, len(c.Items)}, "")
	for i, item := range c.Items {
		errs = append(errs, lineRules.Evaluate(line{item.Quantity, item.UnitPrice}, fmt.Sprintf("items[%d].", i))...)
	}
	return asError(errs)
}

// Validate reports every rule the command breaks.
func (c UpdateSaleCommand) Validate() error {
	var errs []domain.FieldError
	if c.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "Sale ID is required."})
	}
	errs = append(errs, headerRules.Evaluate(header{c.CustomerID, c.BranchID, len(c.Items)}, "")...)
	seen := make(map[uuid.UUID]bool, len(c.Items))
	for i, item := range c.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if item.ID != uuid.Nil {
			if seen[item.ID] {
				errs = append(errs, domain.FieldError{
					Field:   prefix + "id",
					Message: fmt.Sprintf("Item %s is listed more than once.", item.ID),
				})
			}
			seen[item.ID] = true
		}
		errs = append(errs, lineRules.Evaluate(line{item.Quantity, item.UnitPrice}, prefix)...)
	}
	return asError(errs)
}

func asError(errs []domain.FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &domain.ValidationError{Errors: errs}
}
