package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCredits = 3

type Course struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string    `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Credits    int       `gorm:"not null;default:3" json:"credits"`
	Department string    `gorm:"size:100;not null" json:"department"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course" json:"studentId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course;index" json:"courseId"`
	Grade     string    `gorm:"size:10" json:"grade,omitempty"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}
