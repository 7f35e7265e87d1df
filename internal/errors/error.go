package errors

import (
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrTokenInvalid = errors.New("invalid token")
	ErrNotLoggedIn  = errors.New("no active session")

	ErrEmptyCart            = errors.New("cart is empty")
	ErrQuantityBelowMinimum = errors.New("quantity must be at least 1")
	ErrLineNotFound         = errors.New("cart line not found")

	ErrOrderNotFound        = errors.New("order not found")
	ErrNotCancellable       = errors.New("order can no longer be cancelled")
	ErrMissingArrivingInfo  = errors.New("arriving info and arriving date are required")
	ErrConfirmationRequired = errors.New("confirmation is required")

	ErrPlaceOrderFailed = errors.New("failed to place order")
)

// NetworkError is a transport level failure, no HTTP response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s with error=%s", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response, carrying the backend message when the body
// had one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status code=%d with message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned status code=%d", e.StatusCode)
}

// BackendMessage returns the verbatim backend message, or the fallback when
// the backend gave none.
func (e *HTTPError) BackendMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsValidation reports whether err is a client detected precondition failure
// that never reached the network.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyCart,
		ErrQuantityBelowMinimum,
		ErrLineNotFound,
		ErrOrderNotFound,
		ErrNotCancellable,
		ErrMissingArrivingInfo,
		ErrConfirmationRequired,
		ErrNotLoggedIn,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// StatusCode maps an error to the status code the facade answers with.
// Backend rejections pass their status through verbatim.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrEmptyAuth), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrLineNotFound), errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
