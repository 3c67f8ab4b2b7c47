package handler

import (
	"net/http"

	"anoa.com/unimanage/internal/modules/student/dto"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	"anoa.com/unimanage/pkg/response"
	"anoa.com/unimanage/pkg/validator"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	service  studentService.StudentService
	profiles studentService.CallerProfiles
}

func NewStudentHandler(service studentService.StudentService, profiles studentService.CallerProfiles) *StudentHandler {
	return &StudentHandler{service: service, profiles: profiles}
}

func (h *StudentHandler) GetStudents(c *gin.Context) {
	var filter dto.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	students, err := h.service.GetStudents(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetMyStudent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	student, err := h.profiles.ProfileOf(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !response.BindJSON(c, &req) {
		return
	}

	student, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !response.BindJSON(c, &req) {
		return
	}

	student, err := h.service.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
