package dto

import (
	"github.com/VidMosaic/vid_mosaic_app/internal/core/domain"
)

// RegisterUserRequest carries the non-file fields of the multipart registration
// form. The avatar (required) and cover image (optional) arrive as file parts.
type RegisterUserRequest struct {
	FullName string `form:"fullName" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,username"`
	Password string `form:"password" binding:"required,min=8"`
}

// UpdateAccountRequest defines the fields allowed for a profile update.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateAccountRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// UserResponse is the public view of a user: no password hash, no refresh token.
type UserResponse struct {
	UserID        string `json:"userID"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	AvatarURL     string `json:"avatarURL"`
	CoverImageURL string `json:"coverImageURL,omitempty"`
}

// ToUserResponse converts a domain.User to its public view.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
	}
}
