package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func linkedOrder(t *testing.T, store *repository.MemoryStore, chatID *int64) *domain.Order {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, store.CreateLink(ctx, userID, "cafe"))
	if chatID != nil {
		link, err := store.GetLinkByUser(ctx, userID)
		require.NoError(t, err)
		require.NoError(t, store.SetLinkChatID(ctx, link.ID, *chatID))
	}
	return &domain.Order{ID: 12, UserID: userID}
}

func TestStatusChangedSendsMessage(t *testing.T) {
	store := repository.NewMemoryStore()
	chatID := int64(555)
	order := linkedOrder(t, store, &chatID)
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, store, zap.NewNop())

	n.StatusChanged(context.Background(), order, domain.StatusPaid)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, chatID, sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "#12")
	assert.Contains(t, sender.sent[0].Text, domain.StatusPaid.Title())
	assert.Contains(t, sender.sent[0].Text, domain.StatusPaid.Description())
}

func TestStatusChangedNoLinkage(t *testing.T) {
	store := repository.NewMemoryStore()
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, store, zap.NewNop())

	n.StatusChanged(context.Background(), &domain.Order{ID: 1, UserID: uuid.New()}, domain.StatusCreated)

	assert.Empty(t, sender.sent, "user without linkage must not be messaged")
}

func TestStatusChangedHandshakeIncomplete(t *testing.T) {
	store := repository.NewMemoryStore()
	order := linkedOrder(t, store, nil)
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, store, zap.NewNop())

	n.StatusChanged(context.Background(), order, domain.StatusCreated)

	assert.Empty(t, sender.sent, "linkage without chat id must be a silent no-op")
}

func TestStatusChangedSwallowsSendFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	chatID := int64(555)
	order := linkedOrder(t, store, &chatID)
	sender := &fakeSender{err: errors.New("network down")}
	n := NewTelegramNotifier(sender, store, zap.NewNop())

	// must not panic or propagate anything
	n.StatusChanged(context.Background(), order, domain.StatusDelivered)
}
