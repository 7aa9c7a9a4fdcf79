package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
)

// ErrNotFound is returned when a product, basket item, order or telegram
// link does not exist.
var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// BasketRepository owns the open basket and its line items. Open-basket
// uniqueness is the store's concern: CreateOpen must be a no-op when an
// open basket for the user already exists.
type BasketRepository interface {
	// GetOpen returns the user's open basket with items and product
	// detail loaded, or ErrNotFound.
	GetOpen(ctx context.Context, userID uuid.UUID) (*domain.Basket, error)
	CreateOpen(ctx context.Context, userID uuid.UUID) error
	// UpsertItem atomically inserts the (basket, product) row with
	// quantity 1 or increments an existing row by 1.
	UpsertItem(ctx context.Context, basketID, productID int64) (*domain.BasketItem, error)
	// DecrementItem lowers the quantity by 1, deleting the row when it
	// reaches zero. Returns the resulting quantity; 0 with no error when
	// the row does not exist.
	DecrementItem(ctx context.Context, basketID, productID int64) (int64, error)
}

type OrderRepository interface {
	// CreateOrder freezes the basket and inserts the order in one
	// transaction, returning the new order id.
	CreateOrder(ctx context.Context, userID uuid.UUID, basketID int64, address, comments string) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) error
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	// TopProducts ranks products by the number of orders they appear in.
	TopProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

type TelegramLinkRepository interface {
	GetLinkByUser(ctx context.Context, userID uuid.UUID) (*domain.TelegramLink, error)
	// CreateLink is a no-op when a link for the user already exists.
	CreateLink(ctx context.Context, userID uuid.UUID, linkHex string) error
	GetLinkByToken(ctx context.Context, linkHex string) (*domain.TelegramLink, error)
	SetLinkChatID(ctx context.Context, id int64, chatID int64) error
}
