package services_test

import (
	"context"
	"testing"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, subscriberID string, channelID string) error {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	args := m.Called(ctx, subscriberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite ---
type SubscriptionServiceTestSuite struct {
	suite.Suite
	mockSubRepo  *MockSubscriptionRepository
	mockUserRepo *MockUserRepository
	service      portssvc.SubscriptionSvcFacade

	channel *domain.User
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.mockSubRepo = new(MockSubscriptionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewSubscriptionService(suite.mockSubRepo, suite.mockUserRepo)

	suite.channel = &domain.User{UserID: uuid.NewString(), Username: "somechannel"}
	suite.mockUserRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		if username == suite.channel.Username {
			return suite.channel, nil
		}
		return nil, apperrors.ErrNotFound
	}
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_Success() {
	ctx := context.Background()
	subscriberID := uuid.NewString()

	suite.mockSubRepo.On("SaveSubscription", ctx, mock.MatchedBy(func(sub domain.Subscription) bool {
		return sub.SubscriberID == subscriberID && sub.ChannelID == suite.channel.UserID
	})).Return(nil).Once()

	err := suite.service.Subscribe(ctx, subscriberID, suite.channel.Username)

	suite.Require().NoError(err)
	suite.mockSubRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_OwnChannel() {
	ctx := context.Background()

	err := suite.service.Subscribe(ctx, suite.channel.UserID, suite.channel.Username)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "SaveSubscription", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_UnknownChannel() {
	ctx := context.Background()

	err := suite.service.Subscribe(ctx, uuid.NewString(), "ghostchannel")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SubscriptionServiceTestSuite) TestUnsubscribe_Success() {
	ctx := context.Background()
	subscriberID := uuid.NewString()

	suite.mockSubRepo.On("DeleteSubscription", ctx, subscriberID, suite.channel.UserID).Return(nil).Once()

	err := suite.service.Unsubscribe(ctx, subscriberID, suite.channel.Username)

	suite.Require().NoError(err)
	suite.mockSubRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestGetChannelStats() {
	ctx := context.Background()
	viewerID := uuid.NewString()

	suite.mockSubRepo.On("CountSubscribers", ctx, suite.channel.UserID).Return(int64(42), nil).Once()
	suite.mockSubRepo.On("CountSubscribedTo", ctx, suite.channel.UserID).Return(int64(7), nil).Once()
	suite.mockSubRepo.On("IsSubscribed", ctx, viewerID, suite.channel.UserID).Return(true, nil).Once()

	stats, err := suite.service.GetChannelStats(ctx, suite.channel.Username, viewerID)

	suite.Require().NoError(err)
	suite.Equal(suite.channel.UserID, stats.ChannelID)
	suite.Equal(int64(42), stats.SubscriberCount)
	suite.Equal(int64(7), stats.SubscribedToCount)
	suite.True(stats.IsSubscribed)
	suite.mockSubRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestGetChannelStats_AnonymousViewer() {
	ctx := context.Background()

	suite.mockSubRepo.On("CountSubscribers", ctx, suite.channel.UserID).Return(int64(0), nil).Once()
	suite.mockSubRepo.On("CountSubscribedTo", ctx, suite.channel.UserID).Return(int64(0), nil).Once()

	stats, err := suite.service.GetChannelStats(ctx, suite.channel.Username, "")

	suite.Require().NoError(err)
	suite.False(stats.IsSubscribed)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "IsSubscribed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
