package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

// ErrEmptyBasket is returned when checkout is attempted against a basket
// with no line items.
var ErrEmptyBasket = errors.New("no items in basket")

const topProductsLimit = 3

// OrderService converts baskets into orders and owns the order status
// lifecycle. Notification delivery is the caller's concern: status
// persistence here never waits on or rolls back for a notification.
type OrderService struct {
	orders  repository.OrderRepository
	baskets *BasketService
	logger  *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, baskets *BasketService, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		baskets: baskets,
		logger:  logger,
	}
}

// CreateOrder freezes the user's open basket into a new order with status
// created. A later basket access for the user starts a fresh basket.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req domain.OrderCreateRequest) (*domain.Order, error) {
	basket, err := s.baskets.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(basket.Items) == 0 {
		return nil, ErrEmptyBasket
	}

	orderID, err := s.orders.CreateOrder(ctx, userID, basket.ID, req.Address, req.Comments)
	if err != nil {
		s.logger.Error("Failed to create order",
			zap.String("user_id", userID.String()),
			zap.Int64("basket_id", basket.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", orderID),
		zap.String("user_id", userID.String()),
		zap.Int64("basket_id", basket.ID))
	return s.orders.GetOrderByID(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}

// UpdateStatus persists the new status unconditionally and returns the
// refreshed order. There is no legality check between old and new status.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("Order status updated",
		zap.Int64("order_id", id),
		zap.String("status", string(status)))
	return s.orders.GetOrderByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAllOrders(ctx)
}

// TopProducts returns up to three products ranked by how many orders they
// appear in.
func (s *OrderService) TopProducts(ctx context.Context) ([]domain.Product, error) {
	return s.orders.TopProducts(ctx, topProductsLimit)
}
