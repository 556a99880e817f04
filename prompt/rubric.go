package prompt

import "strings"

// RubricVersion identifies the rubric revision embedded in every report.
// Weights, thresholds, and tip wording are product decisions; any change to
// them must bump this version so stored evaluations remain comparable.
const RubricVersion = "1.0.0"

// Content length thresholds (runes of trimmed text). A field counts as
// present when non-blank; the length checks reward substantive content.
const (
	minObjectiveLen  = 120
	minAudienceLen   = 40
	minOutputLen     = 60
	minGuardrailsLen = 80
	minCriteriaLen   = 40
)

// impactRatio is the score fraction below which a dimension is considered
// weak enough to surface an impact tip.
const impactRatio = 0.5

// maxTips caps both tip lists.
const maxTips = 3

type check struct {
	points int
	met    func(*State) bool
}

type dimension struct {
	title    string
	weight   int
	present  func(*State) bool
	checks   []check
	tip      string
	quickWin string
}

// rubric is the fixed evaluation rubric. Weights sum to 100, so the total
// score is naturally bounded to 0–100. Dimension order is declaration order
// for missing-section reporting. Every check is monotone under fill-in edits:
// populating a blank field can only add points, never remove them.
var rubric = []dimension{
	{
		title:   "Clarity of Objective",
		weight:  18,
		present: hasText(FieldObjective),
		checks: []check{
			{9, hasText(FieldObjective)},
			{9, hasLongText(FieldObjective, minObjectiveLen)},
		},
		tip:      "State the objective explicitly: what should the model produce, and why does it matter?",
		quickWin: "Expand the objective with the concrete outcome you expect from a successful response.",
	},
	{
		title:   "Audience Definition",
		weight:  10,
		present: hasText(FieldAudience),
		checks: []check{
			{5, hasText(FieldAudience)},
			{5, hasLongText(FieldAudience, minAudienceLen)},
		},
		tip:      "Describe who will read the output — expertise level, role, and what they already know.",
		quickWin: "Add a detail about the audience's expertise level or familiarity with the subject.",
	},
	{
		title:  "Context & Inputs",
		weight: 12,
		present: func(s *State) bool {
			return text(s, FieldBackground) != "" ||
				text(s, FieldRequiredInputs) != "" ||
				text(s, FieldReferenceMaterial) != ""
		},
		checks: []check{
			{4, hasText(FieldBackground)},
			{4, hasText(FieldRequiredInputs)},
			{4, hasText(FieldReferenceMaterial)},
		},
		tip:      "Provide background context and name the inputs the model should expect to receive.",
		quickWin: "List reference material or required inputs so the model knows what to draw from.",
	},
	{
		title:   "Output Specification",
		weight:  15,
		present: hasText(FieldDesiredOutput),
		checks: []check{
			{6, hasText(FieldDesiredOutput)},
			{3, hasLongText(FieldDesiredOutput, minOutputLen)},
			{3, hasText(FieldSuccessCriteria)},
			{3, hasLongText(FieldSuccessCriteria, minCriteriaLen)},
		},
		tip:      "Specify the desired output: format, length, structure, and what success looks like.",
		quickWin: "Add success criteria so the model can judge whether its response is complete.",
	},
	{
		title:  "Guardrails Coverage",
		weight: 15,
		present: func(s *State) bool {
			return text(s, FieldGuardrails) != "" || len(s.Constraints) > 0
		},
		checks: []check{
			{7, hasText(FieldGuardrails)},
			{4, hasLongText(FieldGuardrails, minGuardrailsLen)},
			{4, func(s *State) bool { return len(s.Constraints) >= 2 }},
		},
		tip:      "Add explicit guardrails: what the model must never do, topics to avoid, hard limits.",
		quickWin: "Add a second constraint tag to tighten the boundaries around the response.",
	},
	{
		title:  "Tone & Style",
		weight: 8,
		present: func(s *State) bool {
			return len(s.ToneTraits) > 0 || len(s.StyleRules) > 0
		},
		checks: []check{
			{3, func(s *State) bool { return len(s.ToneTraits) > 0 }},
			{3, func(s *State) bool { return len(s.StyleRules) > 0 }},
			{2, func(s *State) bool { return len(s.Keywords) > 0 }},
		},
		tip:      "Tag the tone and style you want — voice, register, formatting habits.",
		quickWin: "Add a keyword anchor or style rule to sharpen the voice of the response.",
	},
	{
		title:  "Workflow Structure",
		weight: 10,
		present: func(s *State) bool {
			return countActiveStages(s.Workflow) > 0
		},
		checks: []check{
			{5, func(s *State) bool { return countCompleteStages(s.Workflow) >= 1 }},
			{2, func(s *State) bool { return countCompleteStages(s.Workflow) >= 2 }},
			{3, func(s *State) bool { return countStagesWithExpected(s.Workflow) >= 1 }},
		},
		tip:      "Break the task into ordered workflow stages with an instruction per step.",
		quickWin: "Give each workflow stage an expected output so intermediate results are checkable.",
	},
	{
		title:  "Variable Hygiene",
		weight: 6,
		present: func(s *State) bool {
			return countNamedVariables(s.Variables) > 0
		},
		checks: []check{
			{3, func(s *State) bool { return countNamedVariables(s.Variables) >= 1 }},
			{3, func(s *State) bool { return countDescribedVariables(s.Variables) >= 1 }},
		},
		tip:      "Declare reusable variables for the values that change between prompt runs.",
		quickWin: "Describe each declared variable so its substitution value is unambiguous.",
	},
	{
		title:   "Self-Evaluation Rigor",
		weight:  6,
		present: hasText(FieldSelfEvaluation),
		checks: []check{
			{4, hasText(FieldSelfEvaluation)},
			{2, hasText(FieldCallToAction)},
		},
		tip:      "Tell the model how to check its own work before responding.",
		quickWin: "Close with a call to action that tells the model exactly how to begin.",
	},
}

// summaryBands maps total-score floors to summary wording, highest first.
var summaryBands = []struct {
	floor   int
	summary string
}{
	{90, "Comprehensive specification — every major dimension is covered in depth."},
	{75, "Strong specification with minor gaps; a few refinements would complete it."},
	{50, "Solid foundation, but several dimensions need more substance."},
	{25, "Early draft — the core intent is visible but most dimensions are thin."},
	{0, "Bare outline — fill in the objective, audience, and output expectations to start."},
}

func text(s *State, key FieldKey) string {
	for _, f := range fields {
		if f.key == key {
			return strings.TrimSpace(f.get(s))
		}
	}
	return ""
}

func hasText(key FieldKey) func(*State) bool {
	return func(s *State) bool {
		return text(s, key) != ""
	}
}

func hasLongText(key FieldKey, minLen int) func(*State) bool {
	return func(s *State) bool {
		return len([]rune(text(s, key))) >= minLen
	}
}

// countActiveStages counts stages that would be emitted by the compiler:
// non-blank title or instruction.
func countActiveStages(stages []Stage) int {
	n := 0
	for _, st := range stages {
		if strings.TrimSpace(st.Title) != "" || strings.TrimSpace(st.Instruction) != "" {
			n++
		}
	}
	return n
}

// countCompleteStages counts stages carrying both a title and an instruction.
func countCompleteStages(stages []Stage) int {
	n := 0
	for _, st := range stages {
		if strings.TrimSpace(st.Title) != "" && strings.TrimSpace(st.Instruction) != "" {
			n++
		}
	}
	return n
}

func countStagesWithExpected(stages []Stage) int {
	n := 0
	for _, st := range stages {
		active := strings.TrimSpace(st.Title) != "" || strings.TrimSpace(st.Instruction) != ""
		if active && strings.TrimSpace(st.ExpectedOutput) != "" {
			n++
		}
	}
	return n
}

func countNamedVariables(vars []Variable) int {
	n := 0
	for _, v := range vars {
		if strings.TrimSpace(v.Name) != "" {
			n++
		}
	}
	return n
}

func countDescribedVariables(vars []Variable) int {
	n := 0
	for _, v := range vars {
		if strings.TrimSpace(v.Name) != "" && strings.TrimSpace(v.Description) != "" {
			n++
		}
	}
	return n
}
