package api

import (
	"github.com/quillworks/quill/internal/refine"
	"github.com/quillworks/quill/internal/specs"
	"github.com/quillworks/quill/internal/templates"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Specs     specs.System
	Templates templates.System
	Refine    refine.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	refineSystem := refine.New(&runtime.Refine, runtime.Logger)

	templatesSystem, err := templates.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)
	if err != nil {
		return nil, err
	}

	specsSystem := specs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
		runtime.Storage,
		refineSystem,
	)

	return &Domain{
		Specs:     specsSystem,
		Templates: templatesSystem,
		Refine:    refineSystem,
	}, nil
}
