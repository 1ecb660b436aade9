package qglide

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	"github.com/Temutjin2k/qglide-admin/pkg/record"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets callers treat a 401 like a missing token and a 404 like any other
// missing item.
func (e *APIError) Is(target error) bool {
	switch target {
	case types.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case types.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// NetworkError is a transport failure: the request never got an answer.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

var errorMessagePaths = []envelope.Path{
	{"error", "message"},
	{"error"},
	{"message"},
	{"msg"},
	{"error_description"},
	{"data", "error"},
	{"data", "message"},
	{"details"},
}

// newAPIError extracts a human message from an error body. Bodies without
// one get "HTTP <status>: <status text>".
func newAPIError(endpoint string, status int, body []byte) *APIError {
	msg := errorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(http.StatusText(status)))
	}
	return &APIError{Endpoint: endpoint, Status: status, Message: msg}
}

func errorMessage(body []byte) string {
	decoded, err := envelope.Decode(body)
	if err != nil || decoded == nil {
		return ""
	}
	for _, p := range errorMessagePaths {
		v, ok := envelope.Lookup(decoded, p)
		if !ok {
			continue
		}
		if s, ok := record.ToString(v); ok {
			return s
		}
	}
	return ""
}

// operatorErrors are the sentinels whose text is safe to show as is.
var operatorErrors = []error{
	types.ErrUnauthenticated, types.ErrNotFound, types.ErrInvalidTimeframe,
	types.ErrInvalidStatus, types.ErrEmptyID, types.ErrEmptyMessage, types.ErrNoSelection,
}

// UserMessage is the text shown to the operator for err. Internal details
// stay in the logs.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if errors.Is(err, types.ErrUnauthenticated) {
			return types.ErrUnauthenticated.Error()
		}
		return apiErr.Message
	case IsNetwork(err):
		return "could not reach the QGlide backend, check your connection and try again"
	}

	for _, target := range operatorErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "internal error"
}
