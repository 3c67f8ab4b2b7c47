package dto

import (
	"anoa.com/unimanage/internal/entity"
	"github.com/google/uuid"
)

// LinkInput carries the optional profile fields an admin supplies on approval.
type LinkInput struct {
	Department string
	Semester   int
	RegNo      string
}

type CreateStudentRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	RegNo      string `json:"regNo" binding:"omitempty,max=50"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Semester   int    `json:"semester" binding:"omitempty,min=1,max=8"`
	UserID     string `json:"user" binding:"omitempty,uuid"`
}

type UpdateStudentRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	RegNo      *string `json:"regNo" binding:"omitempty,max=50"`
	Email      *string `json:"email" binding:"omitempty,max=255"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Semester   *int    `json:"semester" binding:"omitempty,min=1,max=8"`
}

type StudentFilter struct {
	Department string `form:"department"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=8"`
}

// StudentSummary is the profile view returned alongside an approval.
type StudentSummary struct {
	ID         uuid.UUID `json:"id"`
	RegNo      string    `json:"regNo"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Semester   int       `json:"semester"`
}

func NewStudentSummary(s *entity.Student) *StudentSummary {
	if s == nil {
		return nil
	}
	return &StudentSummary{
		ID:         s.ID,
		RegNo:      entity.StringValue(s.RegNo),
		Name:       s.Name,
		Email:      entity.StringValue(s.Email),
		Department: s.Department,
		Semester:   s.Semester,
	}
}
