package plan

import (
	"sort"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/mastery"
)

// Priority buckets a concept by its diagnostic evidence.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Entry is one concept slot in the study plan.
type Entry struct {
	ConceptID     string   `json:"concept_id"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Priority      Priority `json:"priority"`
	EstimatedMins int      `json:"estimated_mins"`
}

// Plan is the ordered concept list for the teaching phase, weakest first.
type Plan struct {
	Entries   []Entry `json:"entries"`
	TotalMins int     `json:"total_mins"`
}

// PriorityFor buckets a diagnostic score. The 0.4 and 0.7 boundaries both
// fall in the medium bucket.
func PriorityFor(score float64) Priority {
	switch {
	case score < 0.4:
		return PriorityHigh
	case score <= 0.7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Build assembles a study plan from the chapter's concepts and the
// diagnostic scores. Every concept enters the plan: untested concepts at
// the neutral prior, strong ones at low priority. Concepts are ordered
// weakest first; equal scores keep their chapter order.
func Build(defs []curriculum.ConceptDef, scores map[string]float64) *Plan {
	entries := make([]Entry, 0, len(defs))
	order := make(map[string]int, len(defs))
	for i, def := range defs {
		order[def.ID] = i
		score, tested := scores[def.ID]
		if !tested {
			score = mastery.NeutralPrior
		}
		entries = append(entries, Entry{
			ConceptID:     def.ID,
			Name:          def.Name,
			Score:         score,
			Priority:      PriorityFor(score),
			EstimatedMins: def.EstimatedMins,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return order[entries[i].ConceptID] < order[entries[j].ConceptID]
	})

	total := 0
	for _, e := range entries {
		total += e.EstimatedMins
	}
	return &Plan{Entries: entries, TotalMins: total}
}
