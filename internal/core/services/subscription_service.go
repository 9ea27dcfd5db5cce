package services

import (
	"context"
	"fmt"
	"time"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
)

type subscriptionService struct {
	subRepo  portsrepo.SubscriptionRepository
	userRepo portsrepo.UserRepositoryFacade
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(subRepo portsrepo.SubscriptionRepository, userRepo portsrepo.UserRepositoryFacade) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID string, channelUsername string) error {
	channel, err := s.userRepo.FindUserByUsername(ctx, channelUsername)
	if err != nil {
		return err
	}
	if channel.UserID == subscriberID {
		return fmt.Errorf("%w: cannot subscribe to your own channel", apperrors.ErrValidation)
	}

	sub := domain.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channel.UserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now(),
			LastUpdatedAt: time.Now(),
		},
	}
	return s.subRepo.SaveSubscription(ctx, sub)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID string, channelUsername string) error {
	channel, err := s.userRepo.FindUserByUsername(ctx, channelUsername)
	if err != nil {
		return err
	}
	return s.subRepo.DeleteSubscription(ctx, subscriberID, channel.UserID)
}

func (s *subscriptionService) GetChannelStats(ctx context.Context, channelUsername string, viewerID string) (*domain.ChannelStats, error) {
	channel, err := s.userRepo.FindUserByUsername(ctx, channelUsername)
	if err != nil {
		return nil, err
	}

	subscriberCount, err := s.subRepo.CountSubscribers(ctx, channel.UserID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := s.subRepo.CountSubscribedTo(ctx, channel.UserID)
	if err != nil {
		return nil, err
	}

	var isSubscribed bool
	if viewerID != "" {
		isSubscribed, err = s.subRepo.IsSubscribed(ctx, viewerID, channel.UserID)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ChannelStats{
		ChannelID:         channel.UserID,
		Username:          channel.Username,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}
