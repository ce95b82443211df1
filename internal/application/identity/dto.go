package identity

import (
	"time"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
)

// RegisterRequest is the body of user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest accepts either the username or the email address
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest changes the provided fields only
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      identity.Role `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// LoginResponse carries the issued tokens and the signed-in user
type LoginResponse struct {
	auth.TokenPair
	User UserResponse `json:"user"`
}
