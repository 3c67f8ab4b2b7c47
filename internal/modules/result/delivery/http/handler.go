package handler

import (
	"errors"
	"net/http"

	"anoa.com/unimanage/internal/modules/result/dto"
	resultService "anoa.com/unimanage/internal/modules/result/service"
	"anoa.com/unimanage/pkg/response"
	"anoa.com/unimanage/pkg/storage"
	"anoa.com/unimanage/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	service resultService.ResultService
}

func NewResultHandler(service resultService.ResultService) *ResultHandler {
	return &ResultHandler{service: service}
}

func (h *ResultHandler) UploadResult(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload"})
		return
	}

	var req dto.UploadResultRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file"})
		return
	}
	defer file.Close()

	pdf, err := h.service.UploadResult(c.Request.Context(), req, &storage.File{Name: fileHeader.Filename, Content: file})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pdf)
}

func (h *ResultHandler) UpsertMark(c *gin.Context) {
	var req dto.UpsertMarkRequest
	if !response.BindJSON(c, &req) {
		return
	}

	mark, err := h.service.UpsertMark(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, mark)
}

func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	results, err := h.service.GetMyResults(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ResultHandler) GetStudentPDFs(c *gin.Context) {
	studentID, ok := response.ParseUUIDParam(c, "studentId")
	if !ok {
		return
	}

	pdfs, err := h.service.GetStudentPDFs(c.Request.Context(), studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, pdfs)
}

func (h *ResultHandler) GetStudentMarks(c *gin.Context) {
	studentID, ok := response.ParseUUIDParam(c, "studentId")
	if !ok {
		return
	}

	marks, err := h.service.GetStudentMarks(c.Request.Context(), studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, marks)
}
