package dto

import "time"

type CreateNoticeRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Body        string     `json:"body" binding:"required"`
	Audience    string     `json:"audience" binding:"omitempty,oneof=all students teachers"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type UpdateNoticeRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Body        *string    `json:"body" binding:"omitempty,min=1"`
	Audience    *string    `json:"audience" binding:"omitempty,oneof=all students teachers"`
	PublishedAt *time.Time `json:"publishedAt"`
}
