package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

func newOrderService(t *testing.T) (*OrderService, *BasketService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	baskets := NewBasketService(store, store, zap.NewNop())
	return NewOrderService(store, baskets, zap.NewNop()), baskets, store
}

func TestCreateOrderEmptyBasket(t *testing.T) {
	ctx := context.Background()
	orders, _, _ := newOrderService(t)

	_, err := orders.CreateOrder(ctx, uuid.New(), domain.OrderCreateRequest{Address: "221B Baker St"})
	assert.ErrorIs(t, err, ErrEmptyBasket)
}

func TestCreateOrderFreezesBasket(t *testing.T) {
	ctx := context.Background()
	orders, baskets, store := newOrderService(t)
	userID := uuid.New()
	p := seedProduct(t, store, "Rose candle", 15)

	_, err := baskets.AddItem(ctx, userID, p.ID)
	require.NoError(t, err)
	basketBefore, err := baskets.GetBasket(ctx, userID)
	require.NoError(t, err)

	order, err := orders.CreateOrder(ctx, userID, domain.OrderCreateRequest{
		Address:  "221B Baker St",
		Comments: "leave at the door",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.Equal(t, "221B Baker St", order.Address)
	assert.Equal(t, "leave at the door", order.Comments)
	assert.Equal(t, basketBefore.ID, order.BasketID)
	require.NotNil(t, order.Basket)
	assert.True(t, order.Basket.Ordered, "order must reference a frozen basket")
	require.Len(t, order.Basket.Items, 1)
	assert.Equal(t, p.ID, order.Basket.Items[0].ProductID)
	assert.False(t, order.CreateDate.IsZero())

	// next basket access starts fresh
	fresh, err := baskets.GetBasket(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, basketBefore.ID, fresh.ID)
	assert.Empty(t, fresh.Items)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	orders, baskets, store := newOrderService(t)
	userID := uuid.New()
	p := seedProduct(t, store, "Vanilla candle", 9)

	_, err := baskets.AddItem(ctx, userID, p.ID)
	require.NoError(t, err)
	order, err := orders.CreateOrder(ctx, userID, domain.OrderCreateRequest{Address: "somewhere"})
	require.NoError(t, err)

	updated, err := orders.UpdateStatus(ctx, order.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	// no transition table: canceled after paid is allowed
	updated, err = orders.UpdateStatus(ctx, order.ID, domain.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, updated.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	ctx := context.Background()
	orders, _, _ := newOrderService(t)

	_, err := orders.UpdateStatus(ctx, 999, domain.StatusPaid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetOrderUnknown(t *testing.T) {
	ctx := context.Background()
	orders, _, _ := newOrderService(t)

	_, err := orders.GetOrder(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	orders, baskets, store := newOrderService(t)
	alice, bob := uuid.New(), uuid.New()
	p := seedProduct(t, store, "Candle", 7)

	for _, user := range []uuid.UUID{alice, alice, bob} {
		_, err := baskets.AddItem(ctx, user, p.ID)
		require.NoError(t, err)
		_, err = orders.CreateOrder(ctx, user, domain.OrderCreateRequest{Address: "addr"})
		require.NoError(t, err)
	}

	mine, err := orders.ListOrders(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, alice, o.UserID)
		assert.NotNil(t, o.Basket)
	}

	all, err := orders.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTopProducts(t *testing.T) {
	ctx := context.Background()
	orders, baskets, store := newOrderService(t)
	popular := seedProduct(t, store, "Popular", 1)
	middling := seedProduct(t, store, "Middling", 2)
	rare := seedProduct(t, store, "Rare", 3)
	unsold := seedProduct(t, store, "Unsold", 4)

	buy := func(user uuid.UUID, products ...*domain.Product) {
		t.Helper()
		for _, p := range products {
			_, err := baskets.AddItem(ctx, user, p.ID)
			require.NoError(t, err)
		}
		_, err := orders.CreateOrder(ctx, user, domain.OrderCreateRequest{Address: "addr"})
		require.NoError(t, err)
	}

	buy(uuid.New(), popular, middling, rare)
	buy(uuid.New(), popular, middling)
	buy(uuid.New(), popular)

	top, err := orders.TopProducts(ctx)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, popular.ID, top[0].ID)
	assert.Equal(t, middling.ID, top[1].ID)
	assert.Equal(t, rare.ID, top[2].ID)
	for _, p := range top {
		assert.NotEqual(t, unsold.ID, p.ID)
	}
}
