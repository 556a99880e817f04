package refine

import (
	"errors"
	"net/http"
)

// Domain errors for refinement operations.
var (
	ErrUnknownProvider = errors.New("unknown refinement provider")
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
	ErrProviderFailure = errors.New("refinement provider request failed")
	ErrRefusal         = errors.New("provider declined to refine the prompt")
)

// MapHTTPStatus maps refinement errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownProvider) || errors.Is(err, ErrEmptyPrompt) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRefusal) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrProviderFailure) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
