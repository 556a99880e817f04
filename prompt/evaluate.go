package prompt

import "sort"

// DimensionScore is one row of the evaluation breakdown.
type DimensionScore struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	Max   int    `json:"max"`
}

// Report is the structured quality evaluation of a snapshot.
type Report struct {
	TotalScore      int              `json:"total_score"`
	Summary         string           `json:"summary"`
	Breakdown       []DimensionScore `json:"breakdown"`
	MissingSections []string         `json:"missing_sections"`
	ImpactTips      []string         `json:"impact_tips"`
	QuickWins       []string         `json:"quick_wins"`
	RubricVersion   string           `json:"rubric_version"`
}

// Evaluate scores a snapshot against the fixed rubric. The function is total
// and deterministic: any State value yields a report, and identical snapshots
// yield identical reports. Scores are derived solely from presence, length,
// and list-count heuristics, never from model calls.
func Evaluate(s State) Report {
	scores := make([]DimensionScore, len(rubric))
	missing := make([]string, 0, len(rubric))
	total := 0

	for i, d := range rubric {
		score := 0
		for _, c := range d.checks {
			if c.met(&s) {
				score += c.points
			}
		}

		scores[i] = DimensionScore{Title: d.title, Score: score, Max: d.weight}
		total += score

		if !d.present(&s) {
			missing = append(missing, d.title)
		}
	}

	impact, covered := impactTips(scores)
	wins := quickWins(scores, covered, total)

	return Report{
		TotalScore:      total,
		Summary:         summarize(total),
		Breakdown:       scores,
		MissingSections: missing,
		ImpactTips:      impact,
		QuickWins:       wins,
		RubricVersion:   RubricVersion,
	}
}

// impactTips selects the weakest dimensions (score ratio below impactRatio)
// worst first, capped at maxTips. Ties preserve rubric declaration order so
// output stays stable across calls. Returns the tip list and the set of
// dimension indices it covers.
func impactTips(scores []DimensionScore) ([]string, map[int]bool) {
	idx := make([]int, 0, len(scores))
	for i, ds := range scores {
		if ratio(ds) < impactRatio {
			idx = append(idx, i)
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return ratio(scores[idx[a]]) < ratio(scores[idx[b]])
	})

	if len(idx) > maxTips {
		idx = idx[:maxTips]
	}

	tips := make([]string, len(idx))
	covered := make(map[int]bool, len(idx))
	for i, d := range idx {
		tips[i] = rubric[d].tip
		covered[d] = true
	}

	return tips, covered
}

// quickWins selects already-adequate dimensions (at or above impactRatio)
// that are still short of their max, ordered by smallest remaining gain.
// When nothing qualifies but the snapshot still has room to improve, it falls
// back to the incomplete dimensions not already covered by impact tips, so an
// improvable snapshot never produces an empty guidance list.
func quickWins(scores []DimensionScore, covered map[int]bool, total int) []string {
	pick := func(include func(int, DimensionScore) bool) []int {
		idx := make([]int, 0, len(scores))
		for i, ds := range scores {
			if ds.Score < ds.Max && include(i, ds) {
				idx = append(idx, i)
			}
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return gap(scores[idx[a]]) < gap(scores[idx[b]])
		})
		if len(idx) > maxTips {
			idx = idx[:maxTips]
		}
		return idx
	}

	idx := pick(func(_ int, ds DimensionScore) bool {
		return ratio(ds) >= impactRatio
	})

	if len(idx) == 0 && total < maxTotal() {
		idx = pick(func(i int, _ DimensionScore) bool {
			return !covered[i]
		})
	}

	wins := make([]string, len(idx))
	for i, d := range idx {
		wins[i] = rubric[d].quickWin
	}

	return wins
}

func summarize(total int) string {
	for _, band := range summaryBands {
		if total >= band.floor {
			return band.summary
		}
	}
	return summaryBands[len(summaryBands)-1].summary
}

func ratio(ds DimensionScore) float64 {
	if ds.Max == 0 {
		return 1
	}
	return float64(ds.Score) / float64(ds.Max)
}

func gap(ds DimensionScore) int {
	return ds.Max - ds.Score
}

func maxTotal() int {
	total := 0
	for _, d := range rubric {
		total += d.weight
	}
	return total
}
