package handlers

import (
	"errors"
	"net/http"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles channel subscription requests.
type SubscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService portssvc.SubscriptionSvcFacade) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func registerSubscriptionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewSubscriptionHandler(services.Subscription)

	channels := rg.Group("/channels")
	{
		channels.GET("/:username/stats", h.GetChannelStats)
		channels.POST("/:username/subscription", h.Subscribe)
		channels.DELETE("/:username/subscription", h.Unsubscribe)
	}
}

// GetChannelStats godoc
// @Summary Get channel statistics
// @Description Returns subscriber counts for a channel and whether the viewer is subscribed.
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} domain.ChannelStats
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /channels/{username}/stats [get]
func (h *SubscriptionHandler) GetChannelStats(c *gin.Context) {
	viewerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.subscriptionService.GetChannelStats(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Channel not found"})
			return
		}
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to fetch channel stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Subscribe godoc
// @Summary Subscribe to a channel
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Subscribing to yourself"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /channels/{username}/subscription [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	subscriberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.subscriptionService.Subscribe(c.Request.Context(), subscriberID, c.Param("username")); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Channel not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to subscribe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
}

// Unsubscribe godoc
// @Summary Unsubscribe from a channel
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /channels/{username}/subscription [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	subscriberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), subscriberID, c.Param("username")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Channel not found"})
			return
		}
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}
