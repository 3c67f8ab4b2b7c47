package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaterialPDF     = "pdf"
	MaterialImage   = "image"
	MaterialYouTube = "youtube"
	MaterialLink    = "link"
	MaterialText    = "text"
	MaterialFile    = "file"
)

type Material struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"courseId"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Type      string     `gorm:"size:20;not null;default:link" json:"type"`
	URL       string     `gorm:"type:text" json:"url,omitempty"`
	FilePath  string     `gorm:"type:text" json:"filePath,omitempty"`
	Note      string     `gorm:"type:text" json:"note,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	Course    *Course    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

func IsValidMaterialType(t string) bool {
	switch t {
	case MaterialPDF, MaterialImage, MaterialYouTube, MaterialLink, MaterialText, MaterialFile:
		return true
	}
	return false
}
