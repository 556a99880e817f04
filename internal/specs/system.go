package specs

import (
	"context"

	"github.com/google/uuid"

	"github.com/quillworks/quill/internal/refine"
	"github.com/quillworks/quill/pkg/pagination"
	"github.com/quillworks/quill/prompt"
)

// System defines the public contract for spec domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Spec], error)

	Find(ctx context.Context, id uuid.UUID) (*Spec, error)
	Create(ctx context.Context, cmd CreateCommand) (*Spec, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Spec, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyCommands applies an ordered batch of state commands to a stored
	// spec and persists the result.
	ApplyCommands(ctx context.Context, id uuid.UUID, cmds []prompt.Command) (*Spec, error)

	// Compile renders a stored spec to its prompt document.
	Compile(ctx context.Context, id uuid.UUID) (*CompileResult, error)

	// Evaluate scores a stored spec against the rubric.
	Evaluate(ctx context.Context, id uuid.UUID) (*EvaluateResult, error)

	// Export writes the compiled prompt and its rubric report to blob storage.
	Export(ctx context.Context, id uuid.UUID) (*ExportResult, error)

	// Refine compiles a stored spec and sends it through the refinement proxy.
	Refine(ctx context.Context, id uuid.UUID, req refine.Request) (*refine.Result, error)
}
