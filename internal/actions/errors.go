package actions

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("action item not found")
	ErrDuplicate        = errors.New("action item already exists")
	ErrInvalidID        = errors.New("invalid action item id")
	ErrEmptyDescription = errors.New("action item description required")
	ErrDocumentNotFound = errors.New("referenced document not found")
)

// MapHTTPStatus maps action item errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrEmptyDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
