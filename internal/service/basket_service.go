package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

// BasketService owns the single open basket per user.
type BasketService struct {
	baskets  repository.BasketRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewBasketService(baskets repository.BasketRepository, products repository.ProductRepository, logger *zap.Logger) *BasketService {
	return &BasketService{
		baskets:  baskets,
		products: products,
		logger:   logger,
	}
}

// GetBasket returns the user's open basket, creating it on first access.
// The store's uniqueness constraint makes the create a no-op when a
// concurrent request won the insert, so the re-fetch always lands on the
// same basket.
func (s *BasketService) GetBasket(ctx context.Context, userID uuid.UUID) (*domain.Basket, error) {
	basket, err := s.baskets.GetOpen(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := s.baskets.CreateOpen(ctx, userID); err != nil {
		return nil, err
	}
	s.logger.Info("Open basket created", zap.String("user_id", userID.String()))
	return s.baskets.GetOpen(ctx, userID)
}

// AddItem puts one unit of the product into the user's open basket.
// Returns repository.ErrNotFound when the product does not exist.
func (s *BasketService) AddItem(ctx context.Context, userID uuid.UUID, productID int64) (*domain.BasketItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	basket, err := s.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.baskets.UpsertItem(ctx, basket.ID, productID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Basket item added",
		zap.Int64("basket_id", basket.ID),
		zap.Int64("product_id", productID),
		zap.Int64("quantity", item.Quantity))
	return item, nil
}

// RemoveItem takes one unit of the product out of the open basket and
// returns the remaining quantity. Removing a product that is not in the
// basket returns 0 without error.
func (s *BasketService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (int64, error) {
	basket, err := s.GetBasket(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.baskets.DecrementItem(ctx, basket.ID, productID)
}
