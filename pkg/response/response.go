package response

import (
	"errors"
	"io"
	"log"
	"net/http"

	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextName   = "name"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}

	return userID, nil
}

// GetRole returns the role claimed by the session token, or "" when absent.
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		c.JSON(code, gin.H{"error": "Server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// ParseUUIDParam reads a path parameter as a UUID, answering 400 when it is malformed.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// BindJSON decodes the request body into obj, treating an empty body as an
// empty object. It answers 400 and returns false when binding fails.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return false
	}
	return true
}
