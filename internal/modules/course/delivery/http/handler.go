package handler

import (
	"net/http"

	"anoa.com/unimanage/internal/modules/course/dto"
	courseService "anoa.com/unimanage/internal/modules/course/service"
	"anoa.com/unimanage/pkg/response"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	service courseService.CourseService
}

func NewCourseHandler(service courseService.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) GetCourses(c *gin.Context) {
	var filter dto.CourseFilter
	_ = c.ShouldBindQuery(&filter)

	courses, err := h.service.GetCourses(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !response.BindJSON(c, &req) {
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !response.BindJSON(c, &req) {
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
