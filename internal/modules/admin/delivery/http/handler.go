package handler

import (
	"net/http"

	"anoa.com/unimanage/internal/modules/admin/dto"
	adminService "anoa.com/unimanage/internal/modules/admin/service"
	"anoa.com/unimanage/pkg/response"
	"anoa.com/unimanage/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.adminService.ListUsers(c.Request.Context(), query.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input dto.ApproveInput
	if !response.BindJSON(c, &input) {
		return
	}

	res, err := h.adminService.ApproveUser(c.Request.Context(), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input dto.RejectInput
	if !response.BindJSON(c, &input) {
		return
	}

	if err := h.adminService.RejectUser(c.Request.Context(), id, input); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ProvisionFromStudents(c *gin.Context) {
	var input dto.ProvisionInput
	if !response.BindJSON(c, &input) {
		return
	}

	res, err := h.adminService.ProvisionFromStudents(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	res, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
