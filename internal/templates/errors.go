package templates

import (
	"errors"
	"net/http"
)

// Domain errors for template operations.
var (
	ErrNotFound    = errors.New("template not found")
	ErrDuplicate   = errors.New("template slug already exists")
	ErrInvalidSlug = errors.New("template slug must be lowercase letters, digits, and hyphens")
	ErrBuiltin     = errors.New("builtin templates cannot be modified")
)

// MapHTTPStatus maps template domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidSlug) || errors.Is(err, ErrBuiltin) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
