package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/events"
	"github.com/RomanEsin/candle-shop-backend/internal/notify"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
	"github.com/RomanEsin/candle-shop-backend/internal/service"
	"github.com/RomanEsin/candle-shop-backend/pkg/middleware"
)

// OrderHandler wires checkout and status updates. Notification and event
// publication run here, after the service call has committed, so a
// delivery failure can never block or roll back the persisted change.
type OrderHandler struct {
	orders   *service.OrderService
	notifier notify.StatusNotifier
	producer *events.Producer
	logger   *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, notifier notify.StatusNotifier, producer *events.Producer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		notifier: notifier,
		producer: producer,
		logger:   logger,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBasket) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no items in basket"})
			return
		}
		h.logger.Error("Failed to create order",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	h.notifier.StatusChanged(c.Request.Context(), order, order.Status)
	h.producer.PublishOrderStatus(order, order.Status)

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req domain.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Error("Failed to update order status",
			zap.Int64("order_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	h.notifier.StatusChanged(c.Request.Context(), order, status)
	h.producer.PublishOrderStatus(order, status)

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) TopProducts(c *gin.Context) {
	products, err := h.orders.TopProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load top products"})
		return
	}
	c.JSON(http.StatusOK, products)
}
