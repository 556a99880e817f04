// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/quillworks/quill/internal/config"
	"github.com/quillworks/quill/internal/infrastructure"
	"github.com/quillworks/quill/pkg/middleware"
	"github.com/quillworks/quill/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBody(cfg.API.MaxBodySizeBytes()))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
