package service

import (
	"context"
	"testing"

	"garden-store/internal/cart"
	"garden-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(repo *MockProductRepository) CartService {
	return NewCartService(cart.NewMemoryStore(), repo, zerolog.Nop())
}

func TestCartService_AddSnapshotsProduct(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, int64(1)).Return(productFixture(1, "Spade", "100.00", 10), nil)

	svc := newCartServiceForTest(repo)

	line, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Spade", line.Name)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 2, line.Quantity)
}

func TestCartService_AddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, int64(1)).Return(productFixture(1, "Spade", "100.00", 10), nil)

	svc := newCartServiceForTest(repo)

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	line, err := svc.Add(ctx, "s1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1, "same product must merge into one line")
}

func TestCartService_AddRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quantity", func(t *testing.T) {
		svc := newCartServiceForTest(new(MockProductRepository))
		_, err := svc.Add(ctx, "s1", 1, 0)
		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByID", ctx, int64(42)).Return(nil, nil)

		svc := newCartServiceForTest(repo)
		_, err := svc.Add(ctx, "s1", 42, 1)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("sold out product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByID", ctx, int64(2)).Return(productFixture(2, "Hose", "480.00", 0), nil)

		svc := newCartServiceForTest(repo)
		_, err := svc.Add(ctx, "s1", 2, 1)
		assert.ErrorIs(t, err, model.ErrProductUnavailable)
	})
}

func TestCartService_ViewTotal(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, int64(1)).Return(productFixture(1, "Spade", "100.00", 10), nil)
	repo.On("GetByID", ctx, int64(2)).Return(productFixture(2, "Hose", "480.00", 5), nil)

	svc := newCartServiceForTest(repo)

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", 2, 1)
	require.NoError(t, err)

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("680.00")),
		"total was %s", view.Total)
}

func TestCartService_ViewTotalSingleLine(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, int64(1)).Return(productFixture(1, "Spade", "100.00", 10), nil)

	svc := newCartServiceForTest(repo)

	_, err := svc.Add(ctx, "s1", 1, 2)
	require.NoError(t, err)

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(200)))
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, int64(1)).Return(productFixture(1, "Spade", "100.00", 10), nil)
	repo.On("GetByID", ctx, int64(2)).Return(productFixture(2, "Hose", "480.00", 5), nil)

	svc := newCartServiceForTest(repo)

	_, err := svc.Add(ctx, "s1", 1, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", 2, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "s1", 1))
	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2), view.Lines[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "s1"))
	view, err = svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}
