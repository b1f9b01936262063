package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/m/domain"
)

func TestSaleItem_TenPercentTier(t *testing.T) {
	// arrange
	item := givenItem(t, 5, "10.00")

	// act
	unitAfter, err := item.UnitPriceAfterDiscount()
	require.NoError(t, err)
	unitDiscount, err := item.UnitDiscount()
	require.NoError(t, err)

	// assert
	assertDecimal(t, "50.00", item.LineTotal())
	assertDecimal(t, "0.10", item.DiscountPercentage())
	assertDecimal(t, "5.00", item.LineDiscount())
	assertDecimal(t, "45.00", item.LineTotalAfterDiscount())
	assertDecimal(t, "9.00", unitAfter)
	assertDecimal(t, "1.00", unitDiscount)
}

func TestSaleItem_TwentyPercentTier(t *testing.T) {
	item := givenItem(t, 15, "100.00")

	assertDecimal(t, "0.20", item.DiscountPercentage())
	assertDecimal(t, "1500.00", item.LineTotal())
	assertDecimal(t, "1200.00", item.LineTotalAfterDiscount())
}

func TestSaleItem_NoDiscountBelowFour(t *testing.T) {
	item := givenItem(t, 3, "19.99")

	assertDecimal(t, "0", item.DiscountPercentage())
	assertDecimal(t, "59.97", item.LineTotal())
	assertDecimal(t, "59.97", item.LineTotalAfterDiscount())
}

func TestSaleItem_AfterDiscountEqualsTotalMinusDiscount(t *testing.T) {
	prices := []string{"0.01", "3.33", "10.00", "19.99", "1234.56"}

	for quantity := 1; quantity <= domain.MaxQuantityPerProduct; quantity++ {
		for _, price := range prices {
			item := givenItem(t, quantity, price)

			expected := item.LineTotal().Sub(item.LineDiscount())
			assert.Truef(t, expected.Equal(item.LineTotalAfterDiscount()),
				"quantity=%d price=%s: %s != %s", quantity, price, expected, item.LineTotalAfterDiscount())
		}
	}
}

func TestNewSaleItem_RejectsQuantityAboveCap(t *testing.T) {
	item, err := domain.NewSaleItem(1001, 21, decimal.NewFromInt(10), false)

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrDomainRuleViolation)
}

func TestNewSaleItem_AssignsIdentity(t *testing.T) {
	first := givenItem(t, 1, "1.00")
	second := givenItem(t, 1, "1.00")

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.IsCancelled())
}

func TestSaleItem_UnitPriceAfterDiscount_ZeroQuantity(t *testing.T) {
	item := givenItem(t, 0, "10.00")

	_, err := item.UnitPriceAfterDiscount()
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)

	_, err = item.UnitDiscount()
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestSaleItem_Cancel_IsIdempotent(t *testing.T) {
	item := givenItem(t, 2, "5.00")

	assert.True(t, item.Cancel())
	assert.False(t, item.Cancel())
	assert.True(t, item.IsCancelled())
}

func TestSaleItem_Validate_Valid(t *testing.T) {
	result := givenItem(t, 4, "2.50").Validate()

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestSaleItem_Validate_CollectsEveryViolation(t *testing.T) {
	item := &domain.SaleItem{ProductID: 0, Quantity: 0, UnitPrice: decimal.Zero}

	result := item.Validate()

	assert.False(t, result.IsValid)
	assert.ElementsMatch(t, []domain.FieldError{
		{Field: "product_id", Message: "Product ID cannot be empty."},
		{Field: "quantity", Message: "Quantity must be greater than zero."},
		{Field: "unit_price", Message: "Unit price must be greater than zero."},
	}, result.Errors)
}

func TestSaleItem_Validate_QuantityAboveCap(t *testing.T) {
	item := &domain.SaleItem{ProductID: 7, Quantity: 25, UnitPrice: decimal.NewFromInt(1)}

	result := item.Validate()

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "quantity", result.Errors[0].Field)
	assert.Equal(t, "Cannot sell more than 20 identical items.", result.Errors[0].Message)
	assert.Error(t, result.Err())
}

func TestSaleItem_Validate_SubCentPrice(t *testing.T) {
	item := givenItem(t, 4, "0.005")

	result := item.Validate()

	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.FieldError{Field: "unit_price", Message: "Unit price cannot have more than 2 decimal places."}, result.Errors[0])
}

func TestFitsMoneyScale(t *testing.T) {
	assert.True(t, domain.FitsMoneyScale(dec(t, "12")))
	assert.True(t, domain.FitsMoneyScale(dec(t, "12.5")))
	assert.True(t, domain.FitsMoneyScale(dec(t, "1.500")))
	assert.False(t, domain.FitsMoneyScale(dec(t, "0.005")))
	assert.False(t, domain.FitsMoneyScale(dec(t, "19.999")))
}
