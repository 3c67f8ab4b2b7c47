package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinSemester = 1
	MaxSemester = 8
)

// Student is the academic profile of a learner. UserID, RegNo and Email are
// nullable so the unique indexes only apply to rows that carry a value.
type Student struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user,omitempty"`
	RegNo      *string    `gorm:"size:50;uniqueIndex" json:"regNo,omitempty"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      *string    `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Department string     `gorm:"size:100;not null;default:''" json:"department"`
	Semester   int        `gorm:"not null;default:1;check:semester >= 1 AND semester <= 8" json:"semester"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

// StringPtr returns nil for blank strings so optional unique columns stay NULL.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
