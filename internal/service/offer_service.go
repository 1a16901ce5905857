package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"jharkhand-tourism/internal/apperr"
)

type SubscriptionStore interface {
	Subscribe(ctx context.Context, userID int) error
	Unsubscribe(ctx context.Context, userID int) error
	SubscriberTelegramIDs(ctx context.Context) ([]int64, error)
}

type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// OfferService manages offer subscriptions and Telegram broadcasts.
type OfferService struct {
	subRepo   SubscriptionStore
	announcer *Announcer
}

func NewOfferService(subRepo SubscriptionStore, announcer *Announcer) *OfferService {
	return &OfferService{subRepo: subRepo, announcer: announcer}
}

func (s *OfferService) Subscribe(ctx context.Context, userID int) error {
	return s.subRepo.Subscribe(ctx, userID)
}

func (s *OfferService) Unsubscribe(ctx context.Context, userID int) error {
	return s.subRepo.Unsubscribe(ctx, userID)
}

func (s *OfferService) SubscriberIDs(ctx context.Context) ([]int64, error) {
	return s.subRepo.SubscriberTelegramIDs(ctx)
}

// Broadcast sends the message to every subscriber with a linked Telegram
// account and counts the deliveries.
func (s *OfferService) Broadcast(ctx context.Context, message string) (*BroadcastResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Invalid("message", "is required")
	}
	if utf8.RuneCountInString(message) > 4096 {
		return nil, apperr.Invalid("message", "must not exceed 4096 characters")
	}
	ids, err := s.subRepo.SubscriberTelegramIDs(ctx)
	if err != nil {
		return nil, err
	}
	res := &BroadcastResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.announcer.Notify(ctx, id, message); err != nil {
			slog.Warn("offer delivery failed", "telegram_id", id, "error", err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	slog.Info("offer broadcast finished", "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
