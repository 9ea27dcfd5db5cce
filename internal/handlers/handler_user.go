package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/VidMosaic/vid_mosaic_app/internal/apperrors"
	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/dto"
	"github.com/VidMosaic/vid_mosaic_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles requests related to the current user's account.
type UserHandler struct {
	userService portssvc.UserSvcFacade
	media       portssvc.MediaUploader
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService portssvc.UserSvcFacade, media portssvc.MediaUploader) *UserHandler {
	return &UserHandler{
		userService: userService,
		media:       media,
	}
}

func registerUserRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewUserHandler(services.User, services.Media)

	users := rg.Group("/users")
	{
		users.GET("/me", h.GetCurrentUser)
		users.PATCH("/me", h.UpdateAccountDetails)
		users.PUT("/me/avatar", h.UpdateAvatar)
		users.PUT("/me/cover-image", h.UpdateCoverImage)
	}
}

// GetCurrentUser godoc
// @Summary Get the authenticated user
// @Produce json
// @Tags users
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateAccountDetails godoc
// @Summary Update account details
// @Description Updates full name and/or email of the authenticated user.
// @Tags users
// @Accept json
// @Produce json
// @Param details body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateAccountDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already in use"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Account update failed", slog.String("error", err.Error()))
			c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to update account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// uploadAndSetMedia handles the shared shape of the avatar and cover endpoints:
// receive one file, push it to object storage, persist the new URL.
func (h *UserHandler) uploadAndSetMedia(c *gin.Context, formField string, folder string,
	setter func(ctx *gin.Context, userID string, url string) (*dto.UserResponse, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: formField + " file is required"})
		return
	}
	upload, closeFile, err := fileUploadFromForm(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Could not read " + formField + " file"})
		return
	}
	defer closeFile()

	url, err := h.media.Upload(c.Request.Context(), folder, upload)
	if err != nil {
		logger.Error("Media upload failed", slog.String("folder", folder), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to upload file"})
		return
	}

	resp, err := setter(c, userID, url)
	if err != nil {
		logger.Error("Media URL update failed", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to update " + formField})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateAvatar godoc
// @Summary Replace the avatar image
// @Tags users
// @Accept mpfd
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/avatar [put]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.uploadAndSetMedia(c, "avatar", portssvc.MediaFolderAvatars,
		func(ctx *gin.Context, userID string, url string) (*dto.UserResponse, error) {
			user, err := h.userService.UpdateAvatar(ctx.Request.Context(), userID, url)
			if err != nil {
				return nil, err
			}
			resp := dto.ToUserResponse(user)
			return &resp, nil
		})
}

// UpdateCoverImage godoc
// @Summary Replace the cover image
// @Tags users
// @Accept mpfd
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/cover-image [put]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.uploadAndSetMedia(c, "coverImage", portssvc.MediaFolderCovers,
		func(ctx *gin.Context, userID string, url string) (*dto.UserResponse, error) {
			user, err := h.userService.UpdateCoverImage(ctx.Request.Context(), userID, url)
			if err != nil {
				return nil, err
			}
			resp := dto.ToUserResponse(user)
			return &resp, nil
		})
}
