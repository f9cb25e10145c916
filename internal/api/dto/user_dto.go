package dto

import (
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Hostel     string `json:"hostel"`
	Block      string `json:"block"`
	RoomNumber string `json:"room_number"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse is the public user representation.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Hostel     string      `json:"hostel,omitempty"`
	Block      string      `json:"block,omitempty"`
	RoomNumber string      `json:"room_number,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuthResponse bundles user and token.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Hostel:     user.Hostel,
		Block:      user.Block,
		RoomNumber: user.RoomNumber,
		CreatedAt:  user.CreatedAt,
	}
}
