package api

import (
	"net/http"

	"github.com/quillworks/quill/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	storage := newStorageHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)

	routes.Register(
		mux,
		domain.Specs.Handler().Routes(),
		domain.Templates.Handler().Routes(),
		domain.Refine.Handler().Routes(),
		storage.routes(),
	)
}
