package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/quillworks/quill/prompt"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

type builtinTemplate struct {
	Slug        string         `yaml:"slug"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	State       prompt.Partial `yaml:"state"`
}

// loadBuiltins parses the embedded template library. Called once at system
// construction; a malformed embedded file is a build defect, so errors
// surface immediately.
func loadBuiltins() (map[string]Template, error) {
	entries, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob builtin templates: %w", err)
	}
	sort.Strings(entries)

	builtins := make(map[string]Template, len(entries))
	for _, path := range entries {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read builtin template %s: %w", path, err)
		}

		var bt builtinTemplate
		if err := yaml.Unmarshal(data, &bt); err != nil {
			return nil, fmt.Errorf("parse builtin template %s: %w", path, err)
		}
		if bt.Slug == "" {
			return nil, fmt.Errorf("builtin template %s: missing slug", path)
		}

		desc := bt.Description
		builtins[bt.Slug] = Template{
			Slug:        bt.Slug,
			Name:        bt.Name,
			Description: &desc,
			Builtin:     true,
			State:       bt.State,
		}
	}

	return builtins, nil
}
