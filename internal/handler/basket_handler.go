package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/repository"
	"github.com/RomanEsin/candle-shop-backend/internal/service"
	"github.com/RomanEsin/candle-shop-backend/pkg/middleware"
)

type BasketHandler struct {
	baskets *service.BasketService
	logger  *zap.Logger
}

func NewBasketHandler(baskets *service.BasketService, logger *zap.Logger) *BasketHandler {
	return &BasketHandler{baskets: baskets, logger: logger}
}

func (h *BasketHandler) GetBasket(c *gin.Context) {
	basket, err := h.baskets.GetBasket(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to load basket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load basket"})
		return
	}
	c.JSON(http.StatusOK, basket)
}

func (h *BasketHandler) AddItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	item, err := h.baskets.AddItem(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("Failed to add basket item",
			zap.Int64("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *BasketHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	quantity, err := h.baskets.RemoveItem(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		h.logger.Error("Failed to remove basket item",
			zap.Int64("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quantity": quantity})
}
