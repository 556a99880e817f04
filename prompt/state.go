// Package prompt implements the prompt specification core for Quill: the
// immutable PromptState shape, the state normalizer, the edit command
// reducer, the prompt compiler, and the quality evaluator. Every function in
// this package is pure (no I/O, no clocks, no shared mutable state) so the
// HTTP layer and any editor UI can recompute outputs on every edit without
// coordination.
package prompt

// State is a complete prompt specification snapshot. The field set is closed:
// twelve free-text fields, four tag sets, a variable sequence, and an ordered
// workflow sequence. Snapshots are immutable by convention; every edit
// produces a new value via Apply or the normalizer.
type State struct {
	Objective         string `json:"objective"`
	Audience          string `json:"audience"`
	Background        string `json:"background"`
	RequiredInputs    string `json:"required_inputs"`
	DesiredOutput     string `json:"desired_output"`
	SuccessCriteria   string `json:"success_criteria"`
	Guardrails        string `json:"guardrails"`
	CreativeDirection string `json:"creative_direction"`
	ReferenceMaterial string `json:"reference_material"`
	SelfEvaluation    string `json:"self_evaluation"`
	Tooling           string `json:"tooling"`
	CallToAction      string `json:"call_to_action"`

	ToneTraits  []string `json:"tone_traits"`
	StyleRules  []string `json:"style_rules"`
	Constraints []string `json:"constraints"`
	Keywords    []string `json:"keywords"`

	Variables []Variable `json:"variables"`
	Workflow  []Stage    `json:"workflow"`
}

// Variable is a reusable placeholder within a prompt specification. ID is
// unique within the sequence and stable for the variable's lifetime. Name is
// normalized to UPPER_SNAKE form on every edit.
type Variable struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
}

// Stage is one step of the workflow decomposition communicated to the model.
// Sequence order is execution order.
type Stage struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Instruction    string `json:"instruction" yaml:"instruction"`
	ExpectedOutput string `json:"expected_output" yaml:"expected_output"`
}

// FieldKey identifies one of the fixed free-text fields.
type FieldKey string

// Free-text field keys, in canonical document order.
const (
	FieldObjective         FieldKey = "objective"
	FieldAudience          FieldKey = "audience"
	FieldBackground        FieldKey = "background"
	FieldRequiredInputs    FieldKey = "required_inputs"
	FieldDesiredOutput     FieldKey = "desired_output"
	FieldSuccessCriteria   FieldKey = "success_criteria"
	FieldGuardrails        FieldKey = "guardrails"
	FieldCreativeDirection FieldKey = "creative_direction"
	FieldReferenceMaterial FieldKey = "reference_material"
	FieldSelfEvaluation    FieldKey = "self_evaluation"
	FieldTooling           FieldKey = "tooling"
	FieldCallToAction      FieldKey = "call_to_action"
)

// TagGroup identifies one of the four ordered tag sets.
type TagGroup string

// Tag group keys, in canonical document order.
const (
	TagsTone        TagGroup = "tone_traits"
	TagsStyle       TagGroup = "style_rules"
	TagsConstraints TagGroup = "constraints"
	TagsKeywords    TagGroup = "keywords"
)

type fieldDef struct {
	key   FieldKey
	title string
	get   func(*State) string
	set   func(*State, string)
}

type tagDef struct {
	group TagGroup
	title string
	get   func(*State) []string
	set   func(*State, []string)
}

// fields is the single source of truth for free-text field order and titles.
// The compiler emits sections in this order; the evaluator names missing
// sections with these titles.
var fields = []fieldDef{
	{FieldObjective, "Objective",
		func(s *State) string { return s.Objective },
		func(s *State, v string) { s.Objective = v }},
	{FieldAudience, "Audience",
		func(s *State) string { return s.Audience },
		func(s *State, v string) { s.Audience = v }},
	{FieldBackground, "Background",
		func(s *State) string { return s.Background },
		func(s *State, v string) { s.Background = v }},
	{FieldRequiredInputs, "Required Inputs",
		func(s *State) string { return s.RequiredInputs },
		func(s *State, v string) { s.RequiredInputs = v }},
	{FieldDesiredOutput, "Desired Output",
		func(s *State) string { return s.DesiredOutput },
		func(s *State, v string) { s.DesiredOutput = v }},
	{FieldSuccessCriteria, "Success Criteria",
		func(s *State) string { return s.SuccessCriteria },
		func(s *State, v string) { s.SuccessCriteria = v }},
	{FieldGuardrails, "Guardrails",
		func(s *State) string { return s.Guardrails },
		func(s *State, v string) { s.Guardrails = v }},
	{FieldCreativeDirection, "Creative Direction",
		func(s *State) string { return s.CreativeDirection },
		func(s *State, v string) { s.CreativeDirection = v }},
	{FieldReferenceMaterial, "Reference Material",
		func(s *State) string { return s.ReferenceMaterial },
		func(s *State, v string) { s.ReferenceMaterial = v }},
	{FieldSelfEvaluation, "Self-Evaluation Strategy",
		func(s *State) string { return s.SelfEvaluation },
		func(s *State, v string) { s.SelfEvaluation = v }},
	{FieldTooling, "Tooling Preferences",
		func(s *State) string { return s.Tooling },
		func(s *State, v string) { s.Tooling = v }},
	{FieldCallToAction, "Call to Action",
		func(s *State) string { return s.CallToAction },
		func(s *State, v string) { s.CallToAction = v }},
}

var tagGroups = []tagDef{
	{TagsTone, "Tone Traits",
		func(s *State) []string { return s.ToneTraits },
		func(s *State, v []string) { s.ToneTraits = v }},
	{TagsStyle, "Style Rules",
		func(s *State) []string { return s.StyleRules },
		func(s *State, v []string) { s.StyleRules = v }},
	{TagsConstraints, "Constraints",
		func(s *State) []string { return s.Constraints },
		func(s *State, v []string) { s.Constraints = v }},
	{TagsKeywords, "Keyword Anchors",
		func(s *State) []string { return s.Keywords },
		func(s *State, v []string) { s.Keywords = v }},
}

// FieldKeys returns the free-text field keys in canonical document order.
func FieldKeys() []FieldKey {
	keys := make([]FieldKey, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// FieldTitle returns the human-readable title for a field key, or the key
// itself when unrecognized.
func FieldTitle(key FieldKey) string {
	for _, f := range fields {
		if f.key == key {
			return f.title
		}
	}
	return string(key)
}

// TagGroups returns the tag group keys in canonical document order.
func TagGroups() []TagGroup {
	groups := make([]TagGroup, len(tagGroups))
	for i, g := range tagGroups {
		groups[i] = g.group
	}
	return groups
}

// Clone returns a deep copy of the state. Slice fields are copied so that
// edits to the clone never alias the original snapshot.
func (s State) Clone() State {
	next := s
	next.ToneTraits = cloneStrings(s.ToneTraits)
	next.StyleRules = cloneStrings(s.StyleRules)
	next.Constraints = cloneStrings(s.Constraints)
	next.Keywords = cloneStrings(s.Keywords)

	if s.Variables != nil {
		next.Variables = make([]Variable, len(s.Variables))
		copy(next.Variables, s.Variables)
	}
	if s.Workflow != nil {
		next.Workflow = make([]Stage, len(s.Workflow))
		copy(next.Workflow, s.Workflow)
	}
	return next
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
