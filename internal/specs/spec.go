// Package specs implements the prompt specification domain for Quill. It
// provides types, data access, and HTTP handlers for managing stored prompt
// states plus compilation, evaluation, export, and refinement over them.
package specs

import (
	"time"

	"github.com/google/uuid"

	"github.com/quillworks/quill/prompt"
)

// Spec is a named, persisted prompt state.
type Spec struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	State       prompt.State `json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new spec. State fields
// left out of the partial fall back to normalized defaults.
type CreateCommand struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	State       *prompt.Partial `json:"state,omitempty"`
}

// UpdateCommand carries the data needed to update spec metadata and overlay
// state fields. Nil fields are left unchanged.
type UpdateCommand struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	State       *prompt.Partial `json:"state,omitempty"`
}

// CompileResult pairs a compiled prompt document with its source spec.
type CompileResult struct {
	SpecID   *uuid.UUID `json:"spec_id,omitempty"`
	Markdown string     `json:"markdown"`
}

// EvaluateResult pairs a rubric report with its source spec.
type EvaluateResult struct {
	SpecID *uuid.UUID    `json:"spec_id,omitempty"`
	Report prompt.Report `json:"report"`
}

// ExportResult identifies the blobs written by an export.
type ExportResult struct {
	SpecID    uuid.UUID `json:"spec_id"`
	PromptKey string    `json:"prompt_key"`
	ReportKey string    `json:"report_key"`
}
