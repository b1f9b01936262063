package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/m/domain"
	"salesdesk/m/internal/store"
	"salesdesk/m/internal/store/storetest"
)

func givenSale(t *testing.T, quantities ...int) *domain.Sale {
	t.Helper()

	sale := domain.NewSale(42, 7, false)
	items := make([]*domain.SaleItem, 0, len(quantities))
	for i, q := range quantities {
		item, err := domain.NewSaleItem(int64(100+i), q, decimal.RequireFromString("12.50"), false)
		require.NoError(t, err)
		items = append(items, item)
	}
	require.NoError(t, sale.AttachItems(items))

	return sale
}

func persist(t *testing.T, s *store.Store, sale *domain.Sale) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.WithinTx(ctx, func(repo domain.Repository) error {
		if err := repo.CreateSale(ctx, sale); err != nil {
			return err
		}
		return repo.CreateItems(ctx, sale.Items)
	}))
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := store.New(sqlx.NewDb(nil, "oracle"))

	assert.ErrorContains(t, err, "unsupported driver")
}

func TestCreateSale_AssignsSequentialNumbers(t *testing.T) {
	s := storetest.New(t)

	first := givenSale(t, 1)
	second := givenSale(t, 2)
	persist(t, s, first)
	persist(t, s, second)

	assert.Greater(t, first.Number, int64(0))
	assert.Equal(t, first.Number+1, second.Number)
}

func TestGetSaleByID_RoundTrip(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sale := givenSale(t, 5, 10)
	persist(t, s, sale)

	loaded, found, err := s.GetSaleByID(ctx, sale.ID)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sale.ID, loaded.ID)
	assert.Equal(t, sale.Number, loaded.Number)
	assert.Equal(t, sale.CustomerID, loaded.CustomerID)
	assert.Equal(t, sale.BranchID, loaded.BranchID)
	assert.WithinDuration(t, sale.CreatedAt, loaded.CreatedAt, time.Second)
	assert.True(t, sale.Total().Equal(loaded.Total()))
	assert.True(t, sale.TotalAfterDiscount().Equal(loaded.TotalAfterDiscount()))

	require.Len(t, loaded.Items, 2)
	for i, item := range loaded.Items {
		assert.Equal(t, sale.Items[i].ID, item.ID)
		assert.Equal(t, sale.ID, item.SaleID)
		assert.Equal(t, sale.Items[i].Quantity, item.Quantity)
		assert.True(t, sale.Items[i].UnitPrice.Equal(item.UnitPrice))
	}
}

func TestGetSaleByID_Absent(t *testing.T) {
	s := storetest.New(t)

	sale, found, err := s.GetSaleByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, sale)
}

func TestUpdateSale_PersistsCancellation(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sale := givenSale(t, 3)
	persist(t, s, sale)

	number := sale.Number
	sale.Cancel()
	sale.Items[0].Cancel()
	require.NoError(t, s.UpdateSale(ctx, sale))
	require.NoError(t, s.UpdateItems(ctx, sale.Items))

	loaded, _, err := s.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsCancelled())
	assert.True(t, loaded.Items[0].IsCancelled())
	assert.Equal(t, number, loaded.Number)
}

func TestUpdateSale_Missing(t *testing.T) {
	s := storetest.New(t)

	err := s.UpdateSale(context.Background(), givenSale(t, 1))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItems_UnknownItem(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sale := givenSale(t, 1)
	persist(t, s, sale)

	stranger, err := domain.NewSaleItem(9, 1, decimal.NewFromInt(1), false)
	require.NoError(t, err)
	stranger.SaleID = sale.ID

	err = s.UpdateItems(ctx, []*domain.SaleItem{sale.Items[0], stranger})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItems_Empty(t *testing.T) {
	s := storetest.New(t)

	err := s.UpdateItems(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrMissingArgument)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sale := givenSale(t, 2)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(repo domain.Repository) error {
		if err := repo.CreateSale(ctx, sale); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, found, err := s.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetItemsBySaleID_KeepsInsertionOrder(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sale := givenSale(t, 1, 2, 3, 4)
	persist(t, s, sale)

	items, err := s.GetItemsBySaleID(ctx, sale.ID)

	require.NoError(t, err)
	require.Len(t, items, 4)
	for i, item := range items {
		assert.Equal(t, sale.Items[i].ID, item.ID)
	}
}
