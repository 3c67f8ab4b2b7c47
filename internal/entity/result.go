package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InternalMark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mark_course_student" json:"courseId"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mark_course_student;index" json:"studentId"`
	Marks     float64   `gorm:"not null;default:0" json:"marks"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m *InternalMark) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

// ResultPDF is an uploaded result sheet, one per student and semester.
type ResultPDF struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_student_semester" json:"studentId"`
	Semester  *int      `gorm:"uniqueIndex:idx_result_student_semester;check:semester IS NULL OR semester >= 1" json:"semester,omitempty"`
	FilePath  string    `gorm:"type:text;not null" json:"filePath"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (ResultPDF) TableName() string {
	return "result_pdfs"
}

func (r *ResultPDF) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
