package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/unimanage/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestResponseErrorHidesInternalDetails(t *testing.T) {
	c, rec := newContext(http.MethodGet, "")
	ResponseError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, rec.Body.String())
}

func TestResponseErrorUsesMessage(t *testing.T) {
	c, rec := newContext(http.MethodGet, "")
	ResponseError(c, apperror.Forbidden("Account pending approval by admin"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Account pending approval by admin"}`, rec.Body.String())
}

type sample struct {
	Name string `json:"name" binding:"required"`
	Note string `json:"note"`
}

type optional struct {
	Note string `json:"note" binding:"max=5"`
}

func TestBindJSON(t *testing.T) {
	c, _ := newContext(http.MethodPost, `{"name":"x"}`)
	var ok sample
	assert.True(t, BindJSON(c, &ok))
	assert.Equal(t, "x", ok.Name)

	c, rec := newContext(http.MethodPost, `{}`)
	var missing sample
	assert.False(t, BindJSON(c, &missing))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")

	c, _ = newContext(http.MethodPost, "")
	var empty optional
	assert.True(t, BindJSON(c, &empty))

	c, rec = newContext(http.MethodPost, "")
	var emptyRequired sample
	assert.False(t, BindJSON(c, &emptyRequired))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "")
	_, err := GetUserID(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	c.Set(ContextUserID, "not-a-uuid")
	_, err = GetUserID(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
