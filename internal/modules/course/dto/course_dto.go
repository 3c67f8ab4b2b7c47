package dto

type CreateCourseRequest struct {
	Code       string `json:"code" binding:"required,max=30"`
	Title      string `json:"title" binding:"required,max=200"`
	Credits    *int   `json:"credits" binding:"omitempty,min=0,max=30"`
	Department string `json:"department" binding:"required,max=100"`
}

type UpdateCourseRequest struct {
	Code       *string `json:"code" binding:"omitempty,min=1,max=30"`
	Title      *string `json:"title" binding:"omitempty,min=1,max=200"`
	Credits    *int    `json:"credits" binding:"omitempty,min=0,max=30"`
	Department *string `json:"department" binding:"omitempty,min=1,max=100"`
}

type CourseFilter struct {
	Department string `form:"department"`
}
