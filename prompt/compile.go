package prompt

import (
	"fmt"
	"strings"
)

// Compile renders a snapshot into the canonical prompt document. The output
// is deterministic: compiling the same snapshot twice yields byte-identical
// text. Section order is fixed: free-text fields in declaration order, then
// tag groups, then workflow, then variables. Blank content is omitted
// entirely, never emitted as an empty heading.
func Compile(s State) string {
	sections := make([]string, 0, len(fields)+len(tagGroups)+2)

	for _, f := range fields {
		content := strings.TrimSpace(f.get(&s))
		if content == "" {
			continue
		}
		sections = append(sections, section(f.title, content))
	}

	for _, g := range tagGroups {
		if body := renderTags(g.get(&s)); body != "" {
			sections = append(sections, section(g.title, body))
		}
	}

	if body := renderWorkflow(s.Workflow); body != "" {
		sections = append(sections, section("Workflow", body))
	}

	if body := renderVariables(s.Variables); body != "" {
		sections = append(sections, section("Variables", body))
	}

	return strings.Join(sections, "\n\n")
}

func section(title, body string) string {
	return "## " + title + "\n\n" + body
}

func renderTags(tags []string) string {
	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		lines = append(lines, "- "+t)
	}
	return strings.Join(lines, "\n")
}

// renderWorkflow numbers only the emitted steps: stages with blank title and
// instruction are skipped without breaking the 1-based contiguous numbering
// of the steps that follow.
func renderWorkflow(stages []Stage) string {
	lines := make([]string, 0, len(stages))
	step := 0

	for _, st := range stages {
		title := strings.TrimSpace(st.Title)
		instruction := strings.TrimSpace(st.Instruction)
		if title == "" && instruction == "" {
			continue
		}
		step++

		head := fmt.Sprintf("%d.", step)
		switch {
		case title != "" && instruction != "":
			head += " " + title + ": " + instruction
		case title != "":
			head += " " + title
		default:
			head += " " + instruction
		}
		lines = append(lines, head)

		if expected := strings.TrimSpace(st.ExpectedOutput); expected != "" {
			lines = append(lines, "   Expected output: "+expected)
		}
	}

	return strings.Join(lines, "\n")
}

func renderVariables(vars []Variable) string {
	lines := make([]string, 0, len(vars))

	for _, v := range vars {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}

		line := "- " + name
		if description := strings.TrimSpace(v.Description); description != "" {
			line += " — " + description
		}
		if example := strings.TrimSpace(v.Example); example != "" {
			line += " (example: " + example + ")"
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
