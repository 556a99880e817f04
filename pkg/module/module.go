// Package module mounts self-contained HTTP modules under path prefixes,
// each carrying its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/quillworks/quill/pkg/middleware"
)

// Module is an HTTP handler mounted under a single-level prefix. Requests
// reaching it have the prefix stripped before its inner router sees them.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module under prefix (e.g. "/api"). Panics on an empty,
// unrooted, or multi-level prefix since that is a programming error.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the mount prefix from the request path and dispatches to the
// inner router. The incoming request is not mutated.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := stripPrefix(req.URL.Path, m.prefix)
	m.Handler().ServeHTTP(w, rebase(req, path))
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

func rebase(req *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func stripPrefix(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
