package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/middleware"
	"github.com/VidMosaic/vid_mosaic_app/internal/platform/config"
	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests. It is the transport
// adapter for the session manager: tokens cross the wire as secure HTTP-only
// cookies (plus the JSON body for non-browser clients).
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
	cfg         *config.Config
	analytics   *utils.PosthogClientWrapper
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService portssvc.AuthSvcFacade, cfg *config.Config, analytics *utils.PosthogClientWrapper) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		analytics:   analytics,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, analytics *utils.PosthogClientWrapper) {
	h := NewAuthHandler(services.Auth, cfg, analytics)

	// 5 login attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
		auth.POST("/refresh", h.Refresh)

		authed := auth.Group("", middleware.AuthMiddleware(cfg.AccessTokenSecret, cfg.AccessTokenCookieName))
		authed.POST("/logout", h.Logout)
		authed.POST("/change-password", h.ChangePassword)
	}

	registerGoogleOAuthRoutes(auth, services, h)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, pair *portssvc.TokenPair) {
	secure := h.cfg.IsProduction
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.AccessTokenCookieName, pair.AccessToken, int(h.cfg.AccessTokenExpiry.Seconds()), "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshTokenCookieName, pair.RefreshToken, int(h.cfg.RefreshTokenExpiry.Seconds()), h.cfg.RefreshTokenCookiePath, "", secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	secure := h.cfg.IsProduction
	c.SetCookie(h.cfg.AccessTokenCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", secure, true)
}

// fileUploadFromForm converts a multipart file header into the service-level
// upload value. The caller must invoke the returned close function.
func fileUploadFromForm(fh *multipart.FileHeader) (*portssvc.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	upload := &portssvc.FileUpload{
		Reader:      f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}
	return upload, func() { f.Close() }, nil
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account from a multipart form: fullName, email, username, password plus an avatar file (required) and a coverImage file (optional).
// @Tags auth
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username or email already exists"
// @Failure 502 {object} ErrorResponse "Media upload failed"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	avatarHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Avatar file is required"})
		return
	}
	avatar, closeAvatar, err := fileUploadFromForm(avatarHeader)
	if err != nil {
		logger.Error("Failed to open avatar upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Could not read avatar file"})
		return
	}
	defer closeAvatar()

	var coverImage *portssvc.FileUpload
	if coverHeader, err := c.FormFile("coverImage"); err == nil {
		var closeCover func()
		coverImage, closeCover, err = fileUploadFromForm(coverHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Could not read cover image file"})
			return
		}
		defer closeCover()
	}

	user, err := h.authService.Register(c.Request.Context(), req, avatar, coverImage)
	if err != nil {
		logger.Warn("Registration failed", slog.String("error", err.Error()))
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "User with this email or username already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to register user"})
		}
		return
	}

	middleware.PosthogEvent(h.analytics, user.UserID, "user_registered", nil)
	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates by username or email plus password and returns an access/refresh token pair, also set as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, pair, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		// One generic message for unknown identifier and wrong password alike.
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to log in"})
		return
	}

	h.setSessionCookies(c, pair)
	middleware.PosthogEvent(h.analytics, resp.User.UserID, "user_logged_in", nil)
	c.JSON(http.StatusOK, resp)
}

// refreshTokenFromRequest extracts the presented refresh token: cookie first,
// then bearer header, then JSON body.
func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	var body dto.RefreshRequest
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Description Exchanges a valid refresh token for a new access/refresh pair. The presented token is permanently invalidated.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	presented := h.refreshTokenFromRequest(c)
	if presented == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token not found"})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), presented)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
			return
		}
		logger.Error("Token refresh failed", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout godoc
// @Summary User logout
// @Description Clears the stored refresh token and session cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		logger.Error("Logout failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log out"})
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ChangePassword godoc
// @Summary Change the account password
// @Description Verifies the old password, installs the new one and revokes the active refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid old password"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Password change failed", slog.String("error", err.Error()))
			c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to change password"})
		}
		return
	}

	// The refresh token is revoked server-side; drop the cookies too.
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
