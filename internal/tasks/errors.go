package tasks

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrDuplicate        = errors.New("task already exists")
	ErrInvalidID        = errors.New("invalid task id")
	ErrEmptyDescription = errors.New("task description required")
)

// MapHTTPStatus maps task errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrEmptyDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
