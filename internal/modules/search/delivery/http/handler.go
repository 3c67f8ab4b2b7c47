package handler

import (
	"net/http"

	"anoa.com/unimanage/internal/modules/search/dto"
	searchService "anoa.com/unimanage/internal/modules/search/service"
	"anoa.com/unimanage/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service searchService.SearchService
}

func NewSearchHandler(service searchService.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search query"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), response.GetRole(c), query.Q, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
