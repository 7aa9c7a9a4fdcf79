package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/service"
	"github.com/RomanEsin/candle-shop-backend/pkg/middleware"
)

type TelegramHandler struct {
	telegram *service.TelegramService
	logger   *zap.Logger
}

func NewTelegramHandler(telegram *service.TelegramService, logger *zap.Logger) *TelegramHandler {
	return &TelegramHandler{telegram: telegram, logger: logger}
}

// GetLink hands out the token the user presents to the bot via the
// /start deeplink.
func (h *TelegramHandler) GetLink(c *gin.Context) {
	link, err := h.telegram.GetLink(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to load telegram link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load telegram link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link.LinkHex})
}
