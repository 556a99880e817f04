package templates

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for template domain operations.
type System interface {
	Handler() *Handler

	// List returns all templates, builtin and stored, sorted by slug. A
	// stored template shadows a builtin sharing its slug.
	List(ctx context.Context) ([]Template, error)

	// Find resolves a template by slug, preferring stored over builtin.
	Find(ctx context.Context, slug string) (*Template, error)

	Create(ctx context.Context, cmd CreateCommand) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Apply merges the template fragment over normalized defaults and
	// returns the resulting state.
	Apply(ctx context.Context, slug string) (*ApplyResult, error)
}
