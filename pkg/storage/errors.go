package storage

import (
	"errors"
	"net/http"
)

// Errors surfaced by the export blob store.
var (
	// ErrNotFound indicates the requested export blob does not exist.
	ErrNotFound = errors.New("export blob not found")
	// ErrEmptyKey indicates an empty export key was provided.
	ErrEmptyKey = errors.New("export key must not be empty")
	// ErrInvalidKey indicates the export key would escape the container
	// namespace through a traversal segment.
	ErrInvalidKey = errors.New("export key contains invalid path segment")
)

// MapHTTPStatus maps export store errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
