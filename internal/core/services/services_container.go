package services

import (
	portsrepo "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/repositories"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, media portssvc.MediaUploader) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Auth = NewAuthService(repos.UserRepo, container.User, container.Token, media)
	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo, repos.UserRepo)
	container.Media = media
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
