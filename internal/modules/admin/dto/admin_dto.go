package dto

import (
	studentDto "anoa.com/unimanage/internal/modules/student/dto"
	"github.com/google/uuid"
)

type ListUsersQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type ApproveInput struct {
	Role       string `json:"role" binding:"omitempty,oneof=admin teacher student"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Semester   int    `json:"semester" binding:"omitempty,min=1,max=8"`
	RegNo      string `json:"regNo" binding:"omitempty,max=50"`
}

type ApprovedUser struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
}

type ApproveResponse struct {
	OK      bool                       `json:"ok"`
	User    ApprovedUser               `json:"user"`
	Student *studentDto.StudentSummary `json:"student"`
}

type RejectInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ProvisionInput struct {
	DefaultPassword string `json:"defaultPassword" binding:"omitempty,min=6,max=72"`
}

type ProvisionedUser struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

type ProvisionResponse struct {
	CreatedCount int               `json:"createdCount"`
	Created      []ProvisionedUser `json:"created"`
}

type StatsResponse struct {
	Users    map[string]int64 `json:"users"`
	Students int64            `json:"students"`
}
