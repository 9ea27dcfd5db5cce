package services

import (
	"context"

	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
)

// SubscriptionSvcFacade manages subscriber→channel edges and channel counters.
type SubscriptionSvcFacade interface {
	// Subscribe adds the viewer as a subscriber of the named channel.
	// Subscribing to oneself is a validation error.
	Subscribe(ctx context.Context, subscriberID string, channelUsername string) error

	// Unsubscribe removes the edge. Safe when it does not exist.
	Unsubscribe(ctx context.Context, subscriberID string, channelUsername string) error

	// GetChannelStats returns the channel counters as seen by the viewer.
	GetChannelStats(ctx context.Context, channelUsername string, viewerID string) (*domain.ChannelStats, error)
}
