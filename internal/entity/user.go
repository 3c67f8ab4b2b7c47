package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DefaultRejectionReason is stored when an admin rejects without a reason.
const DefaultRejectionReason = "Not approved"

// User is an authentication identity. Only approved users may log in.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Role            string    `gorm:"size:20;not null;default:student" json:"role"`
	InstitutionalID string    `gorm:"size:100" json:"institutionalId"`
	RequestedRole   string    `gorm:"size:20;not null;default:student" json:"requestedRole"`
	Status          string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	RejectionReason string    `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
