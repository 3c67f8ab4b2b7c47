package dto

import "anoa.com/unimanage/internal/entity"

// UploadResultRequest carries the multipart form fields of a result sheet upload.
type UploadResultRequest struct {
	StudentID string `form:"student" binding:"required,uuid"`
	Semester  *int   `form:"semester" binding:"omitempty,min=1,max=12"`
	Note      string `form:"note" binding:"max=500"`
}

type UpsertMarkRequest struct {
	CourseID  string   `json:"course" binding:"required,uuid"`
	StudentID string   `json:"student" binding:"required,uuid"`
	Marks     *float64 `json:"marks" binding:"required,min=0,max=100"`
}

type StudentResultsResponse struct {
	Student *entity.Student        `json:"student"`
	Marks   []*entity.InternalMark `json:"marks"`
	PDFs    []*entity.ResultPDF    `json:"pdfs"`
}
