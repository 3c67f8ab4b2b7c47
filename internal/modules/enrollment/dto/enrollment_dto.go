package dto

type CreateEnrollmentRequest struct {
	StudentID string `json:"student" binding:"required,uuid"`
	CourseID  string `json:"course" binding:"required,uuid"`
}

type UpdateEnrollmentRequest struct {
	Grade string `json:"grade" binding:"max=10"`
}
