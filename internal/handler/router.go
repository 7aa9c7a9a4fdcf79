package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/RomanEsin/candle-shop-backend/pkg/middleware"
)

// RegisterRoutes mounts the shop API under /api. Everything touching a
// user's basket, orders or telegram link requires a resolved identity.
func RegisterRoutes(r gin.IRouter, products *ProductHandler, baskets *BasketHandler, orders *OrderHandler, telegram *TelegramHandler) {
	api := r.Group("/api")

	api.GET("/products", products.List)
	api.GET("/products/:product_id", products.Get)
	api.POST("/products", products.Create)
	api.DELETE("/products/:product_id", products.Delete)

	authed := api.Group("")
	authed.Use(middleware.Identity())

	authed.GET("/basket", baskets.GetBasket)
	authed.POST("/basket/:product_id", baskets.AddItem)
	authed.DELETE("/basket/:product_id", baskets.RemoveItem)

	authed.POST("/orders", orders.CreateOrder)
	authed.GET("/orders", orders.ListMyOrders)
	authed.GET("/orders/all", orders.ListAllOrders)
	authed.GET("/orders/top-products", orders.TopProducts)
	authed.GET("/orders/:id", orders.GetOrder)
	authed.PUT("/orders/:id", orders.UpdateStatus)

	authed.GET("/telegram/link", telegram.GetLink)
}
