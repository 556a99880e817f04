package prompt

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// IDSource generates identifiers for new variables and workflow stages.
// Injecting the generator keeps the rest of the package deterministic and
// testable; per-call uniqueness is the only requirement.
type IDSource interface {
	NewID() string
}

// UUIDSource is the production IDSource, backed by random UUIDs.
type UUIDSource struct{}

// NewID returns a random UUID string.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// Normalizer produces complete, invariant-satisfying snapshots from partial
// or template input.
type Normalizer struct {
	ids IDSource
}

// NewNormalizer creates a Normalizer using the given id generator. A nil
// generator falls back to UUIDSource.
func NewNormalizer(ids IDSource) *Normalizer {
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Normalizer{ids: ids}
}

// Default returns a snapshot with every free-text field empty, every tag set
// empty, one blank variable, and one blank workflow stage. The non-empty
// variable and workflow sequences guarantee editors always have a row to
// present.
func (n *Normalizer) Default() State {
	return State{
		ToneTraits:  []string{},
		StyleRules:  []string{},
		Constraints: []string{},
		Keywords:    []string{},
		Variables:   []Variable{n.BlankVariable()},
		Workflow:    []Stage{n.BlankStage()},
	}
}

// BlankVariable returns a new variable with a fresh unique id and empty
// content.
func (n *Normalizer) BlankVariable() Variable {
	return Variable{ID: n.ids.NewID()}
}

// BlankStage returns a new workflow stage with a fresh unique id and empty
// content.
func (n *Normalizer) BlankStage() Stage {
	return Stage{ID: n.ids.NewID()}
}

// Partial is a template fragment: nil fields fall back to the base snapshot
// during Merge, non-nil fields override. List-typed fields are replaced
// wholesale when present, never spliced.
type Partial struct {
	Objective         *string `json:"objective,omitempty" yaml:"objective,omitempty"`
	Audience          *string `json:"audience,omitempty" yaml:"audience,omitempty"`
	Background        *string `json:"background,omitempty" yaml:"background,omitempty"`
	RequiredInputs    *string `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
	DesiredOutput     *string `json:"desired_output,omitempty" yaml:"desired_output,omitempty"`
	SuccessCriteria   *string `json:"success_criteria,omitempty" yaml:"success_criteria,omitempty"`
	Guardrails        *string `json:"guardrails,omitempty" yaml:"guardrails,omitempty"`
	CreativeDirection *string `json:"creative_direction,omitempty" yaml:"creative_direction,omitempty"`
	ReferenceMaterial *string `json:"reference_material,omitempty" yaml:"reference_material,omitempty"`
	SelfEvaluation    *string `json:"self_evaluation,omitempty" yaml:"self_evaluation,omitempty"`
	Tooling           *string `json:"tooling,omitempty" yaml:"tooling,omitempty"`
	CallToAction      *string `json:"call_to_action,omitempty" yaml:"call_to_action,omitempty"`

	ToneTraits  []string `json:"tone_traits,omitempty" yaml:"tone_traits,omitempty"`
	StyleRules  []string `json:"style_rules,omitempty" yaml:"style_rules,omitempty"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Workflow  []Stage    `json:"workflow,omitempty" yaml:"workflow,omitempty"`
}

// Merge overlays a template fragment on a base snapshot. Text fields present
// in the partial replace the base value; tag sets are deduplicated in
// insertion order; variables and stages are replaced wholesale, with missing
// ids assigned and variable names normalized. The base snapshot is never
// mutated.
func (n *Normalizer) Merge(base State, partial Partial) State {
	next := base.Clone()

	overlayText(&next.Objective, partial.Objective)
	overlayText(&next.Audience, partial.Audience)
	overlayText(&next.Background, partial.Background)
	overlayText(&next.RequiredInputs, partial.RequiredInputs)
	overlayText(&next.DesiredOutput, partial.DesiredOutput)
	overlayText(&next.SuccessCriteria, partial.SuccessCriteria)
	overlayText(&next.Guardrails, partial.Guardrails)
	overlayText(&next.CreativeDirection, partial.CreativeDirection)
	overlayText(&next.ReferenceMaterial, partial.ReferenceMaterial)
	overlayText(&next.SelfEvaluation, partial.SelfEvaluation)
	overlayText(&next.Tooling, partial.Tooling)
	overlayText(&next.CallToAction, partial.CallToAction)

	if partial.ToneTraits != nil {
		next.ToneTraits = dedupeTags(partial.ToneTraits)
	}
	if partial.StyleRules != nil {
		next.StyleRules = dedupeTags(partial.StyleRules)
	}
	if partial.Constraints != nil {
		next.Constraints = dedupeTags(partial.Constraints)
	}
	if partial.Keywords != nil {
		next.Keywords = dedupeTags(partial.Keywords)
	}

	if partial.Variables != nil {
		next.Variables = make([]Variable, len(partial.Variables))
		for i, v := range partial.Variables {
			if v.ID == "" {
				v.ID = n.ids.NewID()
			}
			v.Name = NormalizeVariableName(v.Name)
			next.Variables[i] = v
		}
	}
	if partial.Workflow != nil {
		next.Workflow = make([]Stage, len(partial.Workflow))
		for i, st := range partial.Workflow {
			if st.ID == "" {
				st.ID = n.ids.NewID()
			}
			next.Workflow[i] = st
		}
	}

	if len(next.Variables) == 0 {
		next.Variables = []Variable{n.BlankVariable()}
	}
	if len(next.Workflow) == 0 {
		next.Workflow = []Stage{n.BlankStage()}
	}

	return next
}

// NormalizeVariableName converts a variable name to UPPER_SNAKE form: letters
// and digits are uppercased, runs of any other characters collapse to a
// single underscore, and edge underscores are trimmed.
func NormalizeVariableName(name string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		pendingSep = true
	}

	return b.String()
}

func overlayText(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
