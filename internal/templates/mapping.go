package templates

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/quillworks/quill/pkg/query"
	"github.com/quillworks/quill/pkg/repository"
	"github.com/quillworks/quill/prompt"
)

var projection = query.
	NewProjectionMap("public", "templates", "t").
	Project("id", "ID").
	Project("slug", "Slug").
	Project("name", "Name").
	Project("description", "Description").
	Project("state", "State").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Slug",
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// scanTemplate decodes a stored row including the jsonb state column.
func scanTemplate(s repository.Scanner) (Template, error) {
	var (
		t     Template
		state []byte
	)

	err := s.Scan(
		&t.ID,
		&t.Slug,
		&t.Name,
		&t.Description,
		&state,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return Template{}, err
	}

	if err := json.Unmarshal(state, &t.State); err != nil {
		return Template{}, fmt.Errorf("decode template state: %w", err)
	}

	return t, nil
}

func encodeFragment(partial prompt.Partial) ([]byte, error) {
	data, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("encode template state: %w", err)
	}
	return data, nil
}
