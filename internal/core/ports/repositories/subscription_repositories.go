package repositories

import (
	"context"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
)

// SubscriptionRepository persists subscriber→channel edges and answers the
// count queries behind the channel view.
type SubscriptionRepository interface {
	// SaveSubscription inserts the edge; inserting an existing edge is a no-op.
	SaveSubscription(ctx context.Context, sub domain.Subscription) error

	// DeleteSubscription removes the edge. Safe to call when absent.
	DeleteSubscription(ctx context.Context, subscriberID string, channelID string) error

	// CountSubscribers returns how many users subscribe to the channel.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// CountSubscribedTo returns how many channels the user subscribes to.
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)

	// IsSubscribed reports whether the edge exists.
	IsSubscribed(ctx context.Context, subscriberID string, channelID string) (bool, error)
}
