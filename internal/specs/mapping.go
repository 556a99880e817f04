package specs

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/quillworks/quill/pkg/query"
	"github.com/quillworks/quill/pkg/repository"
	"github.com/quillworks/quill/prompt"
)

var projection = query.
	NewProjectionMap("public", "prompt_specs", "s").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("state", "State").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for spec queries. Nil fields
// are ignored. Name uses case-insensitive contains matching.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

// scanSpec decodes a row including the jsonb state column.
func scanSpec(s repository.Scanner) (Spec, error) {
	var (
		spec  Spec
		state []byte
	)

	err := s.Scan(
		&spec.ID,
		&spec.Name,
		&spec.Description,
		&state,
		&spec.CreatedAt,
		&spec.UpdatedAt,
	)
	if err != nil {
		return Spec{}, err
	}

	if err := json.Unmarshal(state, &spec.State); err != nil {
		return Spec{}, fmt.Errorf("decode spec state: %w", err)
	}

	return spec, nil
}

func encodeState(state prompt.State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode spec state: %w", err)
	}
	return data, nil
}
