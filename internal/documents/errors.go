package documents

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrInvalidID     = errors.New("invalid document id")
	ErrInvalidStatus = errors.New("invalid document status")
	ErrNilRecord     = errors.New("extraction record required")
)

// MapHTTPStatus maps document errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrNilRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
