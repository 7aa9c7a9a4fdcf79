package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
	"github.com/RomanEsin/candle-shop-backend/internal/repository"
)

// TelegramService is the linkage registry: it hands out the one-time
// token a user presents to the bot and completes the handshake once the
// bot reports back the chat id.
type TelegramService struct {
	links  repository.TelegramLinkRepository
	logger *zap.Logger
}

func NewTelegramService(links repository.TelegramLinkRepository, logger *zap.Logger) *TelegramService {
	return &TelegramService{links: links, logger: logger}
}

// GetLink returns the user's linkage, creating it with a fresh random
// token on first request. The token stays stable across calls.
func (s *TelegramService) GetLink(ctx context.Context, userID uuid.UUID) (*domain.TelegramLink, error) {
	link, err := s.links.GetLinkByUser(ctx, userID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	token, err := newLinkToken()
	if err != nil {
		return nil, err
	}
	if err := s.links.CreateLink(ctx, userID, token); err != nil {
		return nil, err
	}
	s.logger.Info("Telegram link created", zap.String("user_id", userID.String()))
	return s.links.GetLinkByUser(ctx, userID)
}

// ResolveToken finds the linkage a token belongs to.
func (s *TelegramService) ResolveToken(ctx context.Context, token string) (*domain.TelegramLink, error) {
	return s.links.GetLinkByToken(ctx, token)
}

// AttachChat completes the opt-in handshake by storing the chat id for
// the linkage the token resolves to.
func (s *TelegramService) AttachChat(ctx context.Context, token string, chatID int64) error {
	link, err := s.links.GetLinkByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.links.SetLinkChatID(ctx, link.ID, chatID); err != nil {
		return err
	}
	s.logger.Info("Telegram chat attached",
		zap.String("user_id", link.UserID.String()),
		zap.Int64("chat_id", chatID))
	return nil
}

// newLinkToken generates 32 random bytes hex-encoded, mirroring the
// 256-bit opt-in tokens the web client expects.
func newLinkToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate link token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
