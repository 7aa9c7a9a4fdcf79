package notify

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LinkCompleter finishes the opt-in handshake for a presented token.
type LinkCompleter interface {
	AttachChat(ctx context.Context, token string, chatID int64) error
}

// RunDeeplinkListener consumes bot updates and handles the
// "/start <token>" deeplink the shop hands out, attaching the sender's
// chat to the matching linkage. Blocks until ctx is canceled.
func RunDeeplinkListener(ctx context.Context, bot *tgbotapi.BotAPI, links LinkCompleter, logger *zap.Logger) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := bot.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case upd := <-updates:
			msg := upd.Message
			if msg == nil || !msg.IsCommand() || msg.Command() != "start" {
				continue
			}
			token := strings.TrimSpace(msg.CommandArguments())
			if token == "" {
				continue
			}
			if err := links.AttachChat(ctx, token, msg.Chat.ID); err != nil {
				logger.Warn("Failed to attach telegram chat",
					zap.Int64("chat_id", msg.Chat.ID),
					zap.Error(err))
				continue
			}
			if _, err := bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "You will now receive order status updates")); err != nil {
				logger.Warn("Failed to confirm telegram link", zap.Error(err))
			}
		}
	}
}
