package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles Google OAuth related requests. The frontend drives
// the consent flow and posts the authorization code here; the handler trades it
// for a verified Google identity and establishes an ordinary session.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	authService        portssvc.AuthSvcFacade
	authHandler        *AuthHandler
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	authService portssvc.AuthSvcFacade,
	authHandler *AuthHandler,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		authService:        authService,
		authHandler:        authHandler,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, authHandler *AuthHandler) {
	h := NewGoogleOAuthHandler(services.GoogleOAuthHandler, services.User, services.Auth, authHandler)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// ExchangeCodeGoogle handles the POST request from the frontend containing the
// authorization code from Google. It exchanges the code for Google tokens,
// validates the ID token, creates or retrieves the user and issues a session.
// @Summary Exchange authorization code for a session
// @Description Exchange a Google authorization code for an access/refresh token pair
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid authorization code"
// @Failure 502 {object} ErrorResponse "Failed to reach Google"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	// 1. Exchange authorization code for Google tokens.
	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		// invalid_grant means the code itself is bad, which is the client's problem
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Failed to communicate with Google OAuth service"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.ErrorContext(ctx, "ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	// 2. Validate Google's ID token.
	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.ErrorContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	// 3. Extract user information from the validated payload.
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	providerUserID := payload.Subject

	if email == "" || providerUserID == "" {
		logger.ErrorContext(ctx, "Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Essential user information missing from Google token"})
		return
	}

	// 4. Resolve the Google identity to an account, creating one on first sign-in.
	user, err := h.userService.FindOrCreateGoogleUser(ctx, &domain.GoogleUserInfo{
		ID:      providerUserID,
		Email:   email,
		Name:    name,
		Picture: picture,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve Google user", slog.String("error", err.Error()),
			slog.String("google_user_id", providerUserID))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to process user authentication"})
		return
	}

	// 5. Establish a session exactly the way a password login does.
	resp, pair, err := h.authService.LoginWithProvider(ctx, user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to establish session for Google user", slog.String("error", err.Error()),
			slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate session tokens"})
		return
	}

	h.authHandler.setSessionCookies(c, pair)
	logger.InfoContext(ctx, "User logged in via Google OAuth", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}
