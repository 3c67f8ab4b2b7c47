package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceTeachers = "teachers"
)

type Notice struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Audience    string     `gorm:"size:20;not null;default:all;index" json:"audience"`
	PublishedAt time.Time  `gorm:"not null;index" json:"publishedAt"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// AudiencesFor lists the notice audiences a role may read.
func AudiencesFor(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{AudienceAll, AudienceStudents, AudienceTeachers}
	case RoleTeacher:
		return []string{AudienceAll, AudienceTeachers}
	default:
		return []string{AudienceAll, AudienceStudents}
	}
}
