package handler

import (
	"net/http"

	"anoa.com/unimanage/internal/modules/enrollment/dto"
	enrollmentService "anoa.com/unimanage/internal/modules/enrollment/service"
	"anoa.com/unimanage/pkg/response"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	service enrollmentService.EnrollmentService
}

func NewEnrollmentHandler(service enrollmentService.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

func (h *EnrollmentHandler) GetEnrollments(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	enrollments, err := h.service.GetEnrollments(c.Request.Context(), userID, response.GetRole(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !response.BindJSON(c, &req) {
		return
	}

	enrollment, err := h.service.CreateEnrollment(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) UpdateEnrollment(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !response.BindJSON(c, &req) {
		return
	}

	enrollment, err := h.service.UpdateEnrollment(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteEnrollment(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
