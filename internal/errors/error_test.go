package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "given backend rejection should pass status through",
			err:      fmt.Errorf("failed with error=%w", &HTTPError{StatusCode: http.StatusConflict}),
			expected: http.StatusConflict,
		},
		{
			name:     "given network failure should answer bad gateway",
			err:      &NetworkError{Op: "fetch cart", Err: fmt.Errorf("connection refused")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "given missing session should answer unauthorized",
			err:      fmt.Errorf("failed with error=%w", ErrNotLoggedIn),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "given unknown line should answer not found",
			err:      ErrLineNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "given precondition failure should answer bad request",
			err:      ErrQuantityBelowMinimum,
			expected: http.StatusBadRequest,
		},
		{
			name:     "given unclassified error should answer internal server error",
			err:      fmt.Errorf("boom"),
			expected: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(fmt.Errorf("failed with error=%w", ErrEmptyCart)))
	assert.False(t, IsValidation(&HTTPError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsValidation(&NetworkError{Op: "checkout", Err: fmt.Errorf("timeout")}))
}

func TestHTTPErrorBackendMessage(t *testing.T) {
	withMessage := &HTTPError{StatusCode: 400, Message: "product out of stock"}
	assert.Equal(t, "product out of stock", withMessage.BackendMessage("failed to place order"))

	withoutMessage := &HTTPError{StatusCode: 500}
	assert.Equal(t, "failed to place order", withoutMessage.BackendMessage("failed to place order"))
}
