package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/events"
	"github.com/RomanEsin/candle-shop-backend/internal/notify"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
	"github.com/RomanEsin/candle-shop-backend/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := repository.NewMemoryStore()

	baskets := service.NewBasketService(store, store, logger)
	products := service.NewProductService(store, logger)
	orders := service.NewOrderService(store, baskets, logger)
	telegram := service.NewTelegramService(store, logger)
	producer := events.NewProducer("", logger)

	r := gin.New()
	RegisterRoutes(r,
		NewProductHandler(products, logger),
		NewBasketHandler(baskets, logger),
		NewOrderHandler(orders, notify.NopNotifier{}, producer, logger),
		NewTelegramHandler(telegram, logger))
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func seedTestProduct(t *testing.T, store *repository.MemoryStore, title string) *domain.Product {
	t.Helper()
	p := &domain.Product{Title: title, Price: 10, Type: domain.ProductTypeCandle}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestBasketRequiresIdentity(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/basket", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/basket", nil, "not-a-uuid")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasketAddRemoveFlow(t *testing.T) {
	r, store := newTestRouter(t)
	p := seedTestProduct(t, store, "Candle")
	user := uuid.NewString()
	path := "/api/basket/" + itoa(p.ID)

	var item domain.BasketItem
	w := doJSON(t, r, http.MethodPost, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.Equal(t, int64(1), item.Quantity)

	w = doJSON(t, r, http.MethodPost, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.Equal(t, int64(2), item.Quantity)

	var resp struct {
		Quantity int64 `json:"quantity"`
	}
	w = doJSON(t, r, http.MethodDelete, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1), resp.Quantity)

	w = doJSON(t, r, http.MethodDelete, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(0), resp.Quantity)

	var basket domain.Basket
	w = doJSON(t, r, http.MethodGet, "/api/basket", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &basket)
	assert.Empty(t, basket.Items)
}

func TestAddUnknownProduct(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/basket/999", nil, uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderEmptyBasketRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders",
		domain.OrderCreateRequest{Address: "221B Baker St"}, uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no items in basket")
}

func TestCheckoutAndStatusFlow(t *testing.T) {
	r, store := newTestRouter(t)
	p := seedTestProduct(t, store, "Candle")
	user := uuid.NewString()

	w := doJSON(t, r, http.MethodPost, "/api/basket/"+itoa(p.ID), nil, user)
	require.Equal(t, http.StatusOK, w.Code)

	var order domain.Order
	w = doJSON(t, r, http.MethodPost, "/api/orders",
		domain.OrderCreateRequest{Address: "221B Baker St"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &order)
	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.Equal(t, "221B Baker St", order.Address)
	require.NotNil(t, order.Basket)
	assert.True(t, order.Basket.Ordered)

	w = doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID),
		domain.OrderUpdateRequest{Status: "paid"}, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, domain.StatusPaid, order.Status)

	var mine []domain.Order
	w = doJSON(t, r, http.MethodGet, "/api/orders", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusPaid, mine[0].Status)
}

func TestUpdateStatusValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	user := uuid.NewString()

	w := doJSON(t, r, http.MethodPut, "/api/orders/1",
		domain.OrderUpdateRequest{Status: "shipped"}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/orders/999",
		domain.OrderUpdateRequest{Status: "paid"}, user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTelegramLink(t *testing.T) {
	r, _ := newTestRouter(t)
	user := uuid.NewString()

	var resp struct {
		Link string `json:"link"`
	}
	w := doJSON(t, r, http.MethodGet, "/api/telegram/link", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Len(t, resp.Link, 64)

	first := resp.Link
	w = doJSON(t, r, http.MethodGet, "/api/telegram/link", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, first, resp.Link)
}

func TestProductEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	var created domain.Product
	w := doJSON(t, r, http.MethodPost, "/api/products", domain.ProductCreateRequest{
		Title: "Lavender candle",
		Price: 12.5,
		Type:  domain.ProductTypeCandle,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	assert.NotZero(t, created.ID)

	var list []domain.Product
	w = doJSON(t, r, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)

	w = doJSON(t, r, http.MethodGet, "/api/products?price_from=20", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Empty(t, list)

	w = doJSON(t, r, http.MethodGet, "/api/products/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
