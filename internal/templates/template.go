// Package templates implements the prompt template domain for Quill. Builtin
// templates ship embedded with the binary; stored templates live in the
// database and shadow builtins that share a slug.
package templates

import (
	"time"

	"github.com/google/uuid"

	"github.com/quillworks/quill/prompt"
)

// Template is a named state fragment that seeds a new prompt spec. Builtin
// templates have no ID or timestamps.
type Template struct {
	ID          *uuid.UUID     `json:"id,omitempty"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Builtin     bool           `json:"builtin"`
	State       prompt.Partial `json:"state"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// CreateCommand carries the data needed to create a stored template.
type CreateCommand struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	State       prompt.Partial `json:"state"`
}

// UpdateCommand carries the data needed to update a stored template.
type UpdateCommand struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	State       prompt.Partial `json:"state"`
}

// ApplyResult is the normalized state produced by applying a template.
type ApplyResult struct {
	Slug  string       `json:"slug"`
	State prompt.State `json:"state"`
}
