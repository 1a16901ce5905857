package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SubscriptionRepository keeps the list of offer subscribers.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Subscribe adds a user to the subscribers (no-op when already subscribed).
func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "INSERT INTO offer_subscriptions (user_id) VALUES ($1) ON CONFLICT DO NOTHING", userID)
	return wrapErr("subscribe", err)
}

// Unsubscribe removes a user from the subscribers.
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, userID int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM offer_subscriptions WHERE user_id=$1", userID)
	return wrapErr("unsubscribe", err)
}

// SubscriberTelegramIDs returns the Telegram IDs of subscribers that linked an account.
func (r *SubscriptionRepository) SubscriberTelegramIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	err := conn(ctx, r.db).SelectContext(ctx, &ids,
		`SELECT u.telegram_id FROM offer_subscriptions s
		 JOIN users u ON s.user_id = u.id
		 WHERE u.telegram_id IS NOT NULL AND NOT u.blocked`)
	if err != nil {
		return nil, wrapErr("list subscribers", err)
	}
	return ids, nil
}
