package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/m/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()

	assert.Truef(t, dec(t, expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}

func givenItem(t *testing.T, quantity int, price string) *domain.SaleItem {
	t.Helper()

	item, err := domain.NewSaleItem(1001, quantity, dec(t, price), false)
	require.NoError(t, err)

	return item
}
