package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/m/domain"
)

func TestNewSale_StampsIdentityAndTime(t *testing.T) {
	before := time.Now().UTC()

	sale := domain.NewSale(10, 20, false)

	assert.NotEqual(t, uuid.Nil, sale.ID)
	assert.False(t, sale.CreatedAt.Before(before))
	assert.Equal(t, int64(10), sale.CustomerID)
	assert.Equal(t, int64(20), sale.BranchID)
	assert.False(t, sale.IsCancelled())
	assert.Zero(t, sale.Number)
}

func TestSale_SetTotals_SumsItems(t *testing.T) {
	// arrange
	sale := domain.NewSale(10, 20, false)
	items := []*domain.SaleItem{
		givenItem(t, 5, "100"),
		givenItem(t, 10, "50"),
	}

	// act
	err := sale.SetTotals(items)

	// assert
	require.NoError(t, err)
	assertDecimal(t, "1000", sale.Total())
	assertDecimal(t, "150", sale.TotalDiscount())
	assertDecimal(t, "850", sale.TotalAfterDiscount())
	assert.True(t, sale.Total().Sub(sale.TotalDiscount()).Equal(sale.TotalAfterDiscount()))
}

func TestSale_SetTotals_Nil(t *testing.T) {
	sale := domain.NewSale(10, 20, false)

	err := sale.SetTotals(nil)

	assert.ErrorIs(t, err, domain.ErrMissingArgument)
}

func TestSale_SetTotals_Empty(t *testing.T) {
	sale := domain.NewSale(10, 20, false)
	require.NoError(t, sale.SetTotals([]*domain.SaleItem{givenItem(t, 1, "3")}))

	err := sale.SetTotals([]*domain.SaleItem{})

	require.NoError(t, err)
	assert.True(t, sale.Total().IsZero())
	assert.True(t, sale.TotalDiscount().IsZero())
	assert.True(t, sale.TotalAfterDiscount().IsZero())
}

func TestSale_AttachItems_BackReferencesSale(t *testing.T) {
	sale := domain.NewSale(10, 20, false)
	items := []*domain.SaleItem{givenItem(t, 4, "5"), givenItem(t, 2, "7.5")}

	require.NoError(t, sale.AttachItems(items))

	for _, item := range sale.Items {
		assert.Equal(t, sale.ID, item.SaleID)
	}
	assertDecimal(t, "35", sale.Total())
	assertDecimal(t, "2", sale.TotalDiscount())
}

func TestSale_Cancel_IsIdempotent(t *testing.T) {
	sale := domain.NewSale(10, 20, false)

	assert.True(t, sale.Cancel())
	assert.False(t, sale.Cancel())
	assert.True(t, sale.IsCancelled())
}

func TestSale_Validate(t *testing.T) {
	testCases := []struct {
		name           string
		customerID     int64
		branchID       int64
		items          func(t *testing.T) []*domain.SaleItem
		expectedFields []string
	}{
		{
			name:       "valid",
			customerID: 1,
			branchID:   2,
			items: func(t *testing.T) []*domain.SaleItem {
				return []*domain.SaleItem{givenItem(t, 3, "1")}
			},
		},
		{
			name:           "missing references and items",
			items:          func(*testing.T) []*domain.SaleItem { return []*domain.SaleItem{} },
			expectedFields: []string{"customer_id", "branch_id", "items"},
		},
		{
			name:       "item with zero quantity",
			customerID: 1,
			branchID:   2,
			items: func(t *testing.T) []*domain.SaleItem {
				return []*domain.SaleItem{givenItem(t, 2, "1"), givenItem(t, 0, "1")}
			},
			expectedFields: []string{"items", "items[1].quantity"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sale := domain.NewSale(tc.customerID, tc.branchID, false)
			require.NoError(t, sale.AttachItems(tc.items(t)))

			result := sale.Validate()

			fields := make([]string, 0, len(result.Errors))
			for _, fe := range result.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, len(tc.expectedFields) == 0, result.IsValid)
			assert.ElementsMatch(t, tc.expectedFields, fields)
		})
	}
}

func TestValidationResult_Err(t *testing.T) {
	sale := domain.NewSale(0, 0, false)
	require.NoError(t, sale.AttachItems([]*domain.SaleItem{}))

	err := sale.Validate().Err()

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Errors, 3)
	assert.Contains(t, err.Error(), "customer_id")
}
