package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

// ProductService is thin catalog glue over the product store.
type ProductService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	p := &domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Type:        req.Type,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.Int64("product_id", p.ID), zap.String("title", p.Title))
	return p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, f)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
