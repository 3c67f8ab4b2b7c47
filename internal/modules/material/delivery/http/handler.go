package handler

import (
	"errors"
	"net/http"

	"anoa.com/unimanage/internal/modules/material/dto"
	materialService "anoa.com/unimanage/internal/modules/material/service"
	"anoa.com/unimanage/pkg/response"
	"anoa.com/unimanage/pkg/storage"
	"anoa.com/unimanage/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	service materialService.MaterialService
}

func NewMaterialHandler(service materialService.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: service}
}

func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	courseID, ok := response.ParseUUIDParam(c, "courseId")
	if !ok {
		return
	}

	materials, err := h.service.GetMaterials(c.Request.Context(), courseID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

// CreateMaterial accepts multipart form data with an optional "file" part,
// or a plain JSON body.
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	courseID, ok := response.ParseUUIDParam(c, "courseId")
	if !ok {
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateMaterialRequest
	var upload *storage.File

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}

		fileHeader, err := c.FormFile("file")
		switch {
		case err == nil:
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file"})
				return
			}
			defer file.Close()
			upload = &storage.File{Name: fileHeader.Filename, Content: file}
		case !errors.Is(err, http.ErrMissingFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload"})
			return
		}
	} else if !response.BindJSON(c, &req) {
		return
	}

	material, err := h.service.CreateMaterial(c.Request.Context(), courseID, userID, req, upload)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	courseID, ok := response.ParseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMaterial(c.Request.Context(), courseID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
