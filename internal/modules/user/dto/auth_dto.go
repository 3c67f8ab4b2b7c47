package dto

import (
	"time"

	"anoa.com/unimanage/internal/entity"
	"github.com/google/uuid"
)

const RegisteredMessage = "Registered successfully. Please wait for admin approval."

type RegisterInput struct {
	Name            string `json:"name" binding:"max=100"`
	Email           string `json:"email" binding:"max=255"`
	Password        string `json:"password" binding:"max=72"`
	InstitutionalID string `json:"institutionalId" binding:"max=100"`
	RequestedRole   string `json:"requestedRole"`
}

type RegisterResponse struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientIP string `json:"-"`
}

type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

// UserSummary is the outward view of an identity; it never carries the hash.
type UserSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	RequestedRole   string    `json:"requestedRole"`
	InstitutionalID string    `json:"institutionalId"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewUserSummary(u *entity.User) UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Status:          u.Status,
		RequestedRole:   u.RequestedRole,
		InstitutionalID: u.InstitutionalID,
		RejectionReason: u.RejectionReason,
		CreatedAt:       u.CreatedAt,
	}
}
