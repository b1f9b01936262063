package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/m/domain"
)

func TestDiscountFor_Tiers(t *testing.T) {
	for quantity := 1; quantity <= domain.MaxQuantityPerProduct; quantity++ {
		rate, err := domain.DiscountFor(quantity)
		require.NoError(t, err)

		switch {
		case quantity <= 3:
			assertDecimal(t, "0", rate, quantity)
		case quantity <= 9:
			assertDecimal(t, "0.10", rate, quantity)
		default:
			assertDecimal(t, "0.20", rate, quantity)
		}
	}
}

func TestDiscountFor_RejectsQuantityAboveCap(t *testing.T) {
	_, err := domain.DiscountFor(21)

	assert.ErrorIs(t, err, domain.ErrDomainRuleViolation)
}

func TestDiscountFor_Boundaries(t *testing.T) {
	testCases := []struct {
		quantity int
		expected string
	}{
		{quantity: 3, expected: "0"},
		{quantity: 4, expected: "0.10"},
		{quantity: 9, expected: "0.10"},
		{quantity: 10, expected: "0.20"},
		{quantity: 20, expected: "0.20"},
	}

	for _, tc := range testCases {
		rate, err := domain.DiscountFor(tc.quantity)
		require.NoError(t, err)
		assertDecimal(t, tc.expected, rate, tc.quantity)
	}
}
