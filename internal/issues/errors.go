package issues

import (
	"errors"
	"net/http"
)

// Domain errors for issue operations.
var (
	ErrNotFound      = errors.New("issue not found")
	ErrDuplicate     = errors.New("issue already exists")
	ErrInvalidID     = errors.New("invalid issue id")
	ErrInvalidStatus = errors.New("invalid issue status")
)

// MapHTTPStatus maps issue domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
