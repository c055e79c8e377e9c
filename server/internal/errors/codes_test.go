package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	cause := fmt.Errorf("bad literal")
	err := InvalidArgument("invalid reference", cause).WithContext("reference", "soon")

	assert.Equal(t, "[INVALID_ARGUMENT] invalid reference: bad literal", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Equal(t, "soon", err.Context["reference"])
	assert.Equal(t, "[NOT_FOUND] document x", NotFound("document x").Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *APIError
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{RateLimitExceeded("x"), http.StatusTooManyRequests},
		{ServiceUnavailable("x"), http.StatusServiceUnavailable},
		{Internal("x", nil), http.StatusInternalServerError},
		{&APIError{Code: "UNKNOWN"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), string(tt.err.Code))
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, ErrCodeContextCanceled, Wrap(context.Canceled, ErrCodeInternal, "x").Code)
	assert.Equal(t, ErrCodeTimeout, Wrap(fmt.Errorf("slow: %w", context.DeadlineExceeded), ErrCodeInternal, "x").Code)
	assert.Equal(t, ErrCodeInternal, Wrap(fmt.Errorf("boom"), ErrCodeInternal, "x").Code)
}

func TestGetCodeFromError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("doc"))
	assert.Equal(t, ErrCodeNotFound, GetCodeFromError(wrapped, ErrCodeInternal))
	assert.True(t, IsCode(wrapped, ErrCodeNotFound))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(fmt.Errorf("plain"), ErrCodeInternal))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeInternal))
}
