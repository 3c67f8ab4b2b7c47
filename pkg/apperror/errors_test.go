package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("Email and password are required"), http.StatusBadRequest},
		{"conflict", Conflict("Email already registered"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("Invalid credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("Account pending approval by admin"), http.StatusForbidden},
		{"not found", NotFound("User not found"), http.StatusNotFound},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"wrapped sentinel", fmt.Errorf("find student: %w", ErrNotFound), http.StatusNotFound},
		{"explicit code", New(http.StatusServiceUnavailable, "search offline", nil), http.StatusServiceUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := Conflict("Email already registered")

	assert.Equal(t, "Email already registered", err.Error())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "resource not found", Wrap(ErrNotFound, "").Error())
}
