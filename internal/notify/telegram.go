package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

// StatusNotifier delivers order status changes to the user's channel.
// Delivery is best-effort: implementations never return an error because
// the persisted status is authoritative regardless of delivery outcome.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, order *domain.Order, status domain.Status)
}

// Sender is the slice of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier resolves the order's user through the linkage registry
// and sends a status message to their chat. Users without a completed
// linkage are silently skipped.
type TelegramNotifier struct {
	bot    Sender
	links  repository.TelegramLinkRepository
	logger *zap.Logger
}

func NewTelegramNotifier(bot Sender, links repository.TelegramLinkRepository, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, links: links, logger: logger}
}

func (n *TelegramNotifier) StatusChanged(ctx context.Context, order *domain.Order, status domain.Status) {
	link, err := n.links.GetLinkByUser(ctx, order.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		n.logger.Error("Failed to resolve telegram link",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}
	if link.ChatID == nil {
		// user never completed the opt-in handshake
		return
	}

	text := fmt.Sprintf("Your order #%d was updated\n%s\n%s",
		order.ID, status.Title(), status.Description())
	if _, err := n.bot.Send(tgbotapi.NewMessage(*link.ChatID, text)); err != nil {
		n.logger.Error("Failed to send telegram notification",
			zap.Int64("order_id", order.ID),
			zap.Int64("chat_id", *link.ChatID),
			zap.Error(err))
		return
	}
	n.logger.Info("Status notification sent",
		zap.Int64("order_id", order.ID),
		zap.String("status", string(status)))
}

// NopNotifier is wired when no bot token is configured.
type NopNotifier struct{}

func (NopNotifier) StatusChanged(context.Context, *domain.Order, domain.Status) {}
