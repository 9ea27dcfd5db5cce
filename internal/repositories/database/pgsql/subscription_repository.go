package pgsql

import (
	"context"
	"fmt"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSubscriptionRepository struct {
	db *pgxpool.Pool
}

func newPgxSubscriptionRepository(db *pgxpool.Pool) portsrepo.SubscriptionRepository {
	return &PgxSubscriptionRepository{db: db}
}

var _ portsrepo.SubscriptionRepository = (*PgxSubscriptionRepository)(nil)

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
        INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING;
    `
	if _, err := r.db.Exec(ctx, query, sub.SubscriberID, sub.ChannelID, sub.CreatedAt); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) DeleteSubscription(ctx context.Context, subscriberID string, channelID string) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2;`
	if _, err := r.db.Exec(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM subscriptions WHERE channel_id = $1;`
	if err := r.db.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *PgxSubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM subscriptions WHERE subscriber_id = $1;`
	if err := r.db.QueryRow(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribed channels: %w", err)
	}
	return count, nil
}

func (r *PgxSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2);`
	if err := r.db.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}
