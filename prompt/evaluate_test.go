package prompt_test

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/quillworks/quill/prompt"
)

var dimensionTitles = []string{
	"Clarity of Objective",
	"Audience Definition",
	"Context & Inputs",
	"Output Specification",
	"Guardrails Coverage",
	"Tone & Style",
	"Workflow Structure",
	"Variable Hygiene",
	"Self-Evaluation Rigor",
}

func TestEvaluateDeterminism(t *testing.T) {
	s := prompt.State{
		Objective:  "Produce a launch announcement for the new reporting feature.",
		Guardrails: "No competitor comparisons.",
		ToneTraits: []string{"upbeat"},
	}

	first := prompt.Evaluate(s)
	second := prompt.Evaluate(s)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Evaluate not deterministic:\nfirst: %+v\nsecond: %+v", first, second)
	}
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	report := prompt.Evaluate(prompt.State{})

	if report.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", report.TotalScore)
	}

	if !reflect.DeepEqual(report.MissingSections, dimensionTitles) {
		t.Errorf("MissingSections = %v, want every dimension in order", report.MissingSections)
	}

	if len(report.ImpactTips) == 0 {
		t.Error("ImpactTips empty for empty snapshot")
	}
	if len(report.QuickWins) == 0 {
		t.Error("QuickWins empty for empty snapshot")
	}

	for _, ds := range report.Breakdown {
		if ds.Score != 0 {
			t.Errorf("dimension %q score = %d, want 0", ds.Title, ds.Score)
		}
	}

	if report.Summary == "" {
		t.Error("Summary empty")
	}
	if report.RubricVersion != prompt.RubricVersion {
		t.Errorf("RubricVersion = %q, want %q", report.RubricVersion, prompt.RubricVersion)
	}
}

func TestEvaluateObjectiveFillIn(t *testing.T) {
	empty := prompt.Evaluate(prompt.State{})

	s := prompt.State{Objective: strings.Repeat("Summarize the findings. ", 9)} // > 200 chars
	filled := prompt.Evaluate(s)

	if filled.TotalScore <= empty.TotalScore {
		t.Errorf("TotalScore = %d, want > %d after populating objective", filled.TotalScore, empty.TotalScore)
	}

	if slices.Contains(filled.MissingSections, "Clarity of Objective") {
		t.Error("Clarity of Objective still missing after populating the objective")
	}
	if !slices.Contains(empty.MissingSections, "Clarity of Objective") {
		t.Error("Clarity of Objective not missing on the empty snapshot")
	}
}

func TestEvaluateMonotonicity(t *testing.T) {
	base := prompt.State{
		Objective:  "Draft the onboarding email sequence for trial users of the analytics suite, highlighting activation milestones.",
		ToneTraits: []string{"warm"},
	}

	fills := []struct {
		name string
		fill func(prompt.State) prompt.State
	}{
		{"audience", func(s prompt.State) prompt.State {
			s.Audience = "Product-led growth marketers with basic analytics literacy."
			return s
		}},
		{"guardrails", func(s prompt.State) prompt.State {
			s.Guardrails = "Never promise unreleased features. Avoid discount language entirely."
			return s
		}},
		{"desired output", func(s prompt.State) prompt.State {
			s.DesiredOutput = "Five emails, each under 150 words, with subject lines."
			return s
		}},
		{"self evaluation", func(s prompt.State) prompt.State {
			s.SelfEvaluation = "Re-read each email as a skeptical trial user before finalizing."
			return s
		}},
	}

	baseScore := prompt.Evaluate(base).TotalScore
	for _, tt := range fills {
		t.Run(tt.name, func(t *testing.T) {
			got := prompt.Evaluate(tt.fill(base)).TotalScore
			if got < baseScore {
				t.Errorf("TotalScore = %d after filling %s, want >= %d", got, tt.name, baseScore)
			}
		})
	}
}

func TestEvaluateFillInBlankRowNextToCompleteSibling(t *testing.T) {
	// Editors keep a blank trailing row alongside completed entries. Starting
	// to fill that row must never lower the score mid-keystroke.
	base := prompt.State{
		Variables: []prompt.Variable{
			{ID: "a", Name: "TOPIC", Description: "Subject of the piece"},
			{ID: "b"},
		},
		Workflow: []prompt.Stage{
			{ID: "w1", Title: "Draft", Instruction: "Write the first pass", ExpectedOutput: "A rough draft"},
			{ID: "w2"},
		},
	}
	before := prompt.Evaluate(base).TotalScore

	t.Run("naming a blank variable", func(t *testing.T) {
		next := prompt.Apply(base, prompt.UpdateVariable{ID: "b", Name: ptr("audience")})
		if got := prompt.Evaluate(next).TotalScore; got < before {
			t.Errorf("TotalScore = %d after naming the blank variable, want >= %d", got, before)
		}
	})

	t.Run("titling a blank stage", func(t *testing.T) {
		next := prompt.Apply(base, prompt.UpdateStage{ID: "w2", Title: ptr("Review")})
		if got := prompt.Evaluate(next).TotalScore; got < before {
			t.Errorf("TotalScore = %d after titling the blank stage, want >= %d", got, before)
		}
	})
}

func TestEvaluateMissingSectionShrinkage(t *testing.T) {
	s1 := prompt.State{Objective: "Classify inbound support tickets by urgency."}
	s2 := s1
	s2.Audience = "Tier-one support agents."

	m1 := prompt.Evaluate(s1).MissingSections
	m2 := prompt.Evaluate(s2).MissingSections

	if len(m2) >= len(m1) {
		t.Fatalf("missing sections did not shrink: %v -> %v", m1, m2)
	}
	for _, title := range m2 {
		if !slices.Contains(m1, title) {
			t.Errorf("new missing section %q appeared after filling a field", title)
		}
	}
}

func TestEvaluateImpactTipsWorstFirst(t *testing.T) {
	// Everything weak except a strong objective; the tip list must lead with
	// fully-empty dimensions and never exceed the cap.
	s := prompt.State{Objective: strings.Repeat("Audit the data pipeline for schema drift. ", 4)}
	report := prompt.Evaluate(s)

	if len(report.ImpactTips) == 0 || len(report.ImpactTips) > 3 {
		t.Fatalf("len(ImpactTips) = %d, want 1..3", len(report.ImpactTips))
	}
	if slices.Contains(report.ImpactTips, "State the objective explicitly: what should the model produce, and why does it matter?") {
		t.Error("impact tips include the objective tip despite a strong objective")
	}
}

func TestEvaluateQuickWinsNearComplete(t *testing.T) {
	// Tone & Style at 6/8 (missing only keywords) should surface as a quick win.
	s := prompt.State{
		ToneTraits: []string{"direct"},
		StyleRules: []string{"short sentences"},
	}

	report := prompt.Evaluate(s)

	if len(report.QuickWins) == 0 {
		t.Fatal("QuickWins empty")
	}
	if report.QuickWins[0] != "Add a keyword anchor or style rule to sharpen the voice of the response." {
		t.Errorf("QuickWins[0] = %q, want the tone & style quick win first", report.QuickWins[0])
	}
}

func TestEvaluateBreakdownBounds(t *testing.T) {
	s := prompt.State{
		Objective:         strings.Repeat("Deliver a complete migration plan. ", 6),
		Audience:          "Platform engineers responsible for the database tier.",
		Background:        "We are consolidating three regional clusters.",
		RequiredInputs:    "Current cluster inventory and replication topology.",
		ReferenceMaterial: "Internal runbook archive from the 2024 consolidation.",
		DesiredOutput:     "A phased migration runbook with rollback points at every phase.",
		SuccessCriteria:   "Zero data loss and under five minutes of write downtime.",
		Guardrails:        strings.Repeat("Never drop a table without a verified snapshot. ", 2),
		Constraints:       []string{"no weekend cutovers", "keep audit logging enabled"},
		SelfEvaluation:    "Walk the runbook backwards to confirm every rollback point.",
		CallToAction:      "Start with the inventory audit.",
		ToneTraits:        []string{"precise"},
		StyleRules:        []string{"numbered steps"},
		Keywords:          []string{"zero-downtime"},
		Variables: []prompt.Variable{
			{ID: "v1", Name: "CLUSTER", Description: "Cluster identifier"},
		},
		Workflow: []prompt.Stage{
			{ID: "w1", Title: "Inventory", Instruction: "Catalog every schema", ExpectedOutput: "Schema list"},
			{ID: "w2", Title: "Rehearse", Instruction: "Dry-run the migration", ExpectedOutput: "Timing report"},
		},
	}

	report := prompt.Evaluate(s)

	sum := 0
	for _, ds := range report.Breakdown {
		if ds.Score < 0 || ds.Score > ds.Max {
			t.Errorf("dimension %q score %d outside [0,%d]", ds.Title, ds.Score, ds.Max)
		}
		sum += ds.Score
	}

	if sum != report.TotalScore {
		t.Errorf("TotalScore = %d, breakdown sum = %d", report.TotalScore, sum)
	}
	if report.TotalScore != 100 {
		t.Errorf("TotalScore = %d for a fully-populated snapshot, want 100", report.TotalScore)
	}
	if len(report.MissingSections) != 0 {
		t.Errorf("MissingSections = %v, want empty", report.MissingSections)
	}
}
