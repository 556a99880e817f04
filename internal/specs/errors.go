package specs

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill/prompt"
)

// Domain errors for spec operations.
var (
	ErrNotFound  = errors.New("spec not found")
	ErrDuplicate = errors.New("spec name already exists")
	ErrEmptyName = errors.New("spec name must not be empty")
)

// MapHTTPStatus maps spec domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyName) ||
		errors.Is(err, prompt.ErrUnknownCommand) ||
		errors.Is(err, prompt.ErrUnknownField) ||
		errors.Is(err, prompt.ErrUnknownGroup) ||
		errors.Is(err, prompt.ErrMissingID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
