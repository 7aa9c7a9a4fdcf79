package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductType string

const (
	ProductTypeCandle     ProductType = "candle"
	ProductTypeAromaSashe ProductType = "aroma_sashe"
	ProductTypeBathBomb   ProductType = "bath_bomb"
)

type Product struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Image       string      `json:"image"`
	Type        ProductType `json:"type"`
}

// BasketItem is a single (basket, product) line. Quantity is always >= 1
// while the row exists; hitting zero removes the row instead.
type BasketItem struct {
	ID        int64    `json:"id"`
	BasketID  int64    `json:"basket_id"`
	ProductID int64    `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int64    `json:"quantity"`
}

// Basket is the user's pre-checkout cart. At most one basket with
// Ordered=false exists per user; once ordered it is frozen and never
// returned by open-basket lookups again.
type Basket struct {
	ID      int64        `json:"id"`
	UserID  uuid.UUID    `json:"user_id"`
	Ordered bool         `json:"is_ordered"`
	Items   []BasketItem `json:"basket_items"`
}

// Order references a frozen basket. The basket snapshot is immutable,
// only the status changes after creation.
type Order struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	BasketID   int64     `json:"basket_id"`
	Basket     *Basket   `json:"basket,omitempty"`
	Status     Status    `json:"status"`
	Address    string    `json:"address"`
	Comments   string    `json:"comments"`
	CreateDate time.Time `json:"create_date"`
}

// TelegramLink maps a user to a notification chat. ChatID stays nil until
// the user completes the /start handshake with the bot.
type TelegramLink struct {
	ID      int64     `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	LinkHex string    `json:"link_hex"`
	ChatID  *int64    `json:"chat_id,omitempty"`
}

type ProductCreateRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Price       float64     `json:"price" binding:"required"`
	Image       string      `json:"image"`
	Type        ProductType `json:"type" binding:"required"`
}

type ProductFilter struct {
	PriceFrom *float64
	PriceTo   *float64
	Type      *ProductType
}

type OrderCreateRequest struct {
	Address  string `json:"address" binding:"required"`
	Comments string `json:"comments"`
}

type OrderUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}
