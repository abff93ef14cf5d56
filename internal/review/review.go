package review

import (
	"sort"

	"github.com/abhisek/tutoriz/internal/session"
)

// Ladder is the expanding review schedule in days. Stage 0 is the soonest
// recommendation.
var Ladder = []int{1, 3, 7, 14, 30, 60}

// StrongMastery is the score above which a mastered concept can wait for
// a later first review.
const StrongMastery = 0.9

// Days returns the suggested days until first review for a concept's
// end-of-session state. Skipped and unfinished concepts come back soonest;
// strongly mastered ones can wait.
func Days(status session.ConceptStatus, score float64) int {
	switch status {
	case session.ConceptMastered:
		if score >= StrongMastery {
			return Ladder[2]
		}
		return Ladder[1]
	case session.ConceptSkipped:
		return Ladder[0]
	default:
		return Ladder[0]
	}
}

// Suggestions builds review items for every planned concept, soonest
// first. Ordering ties keep plan order.
func Suggestions(concepts []session.Concept) []session.ReviewItem {
	items := make([]session.ReviewItem, 0, len(concepts))
	for _, c := range concepts {
		items = append(items, session.ReviewItem{
			ConceptID: c.ID,
			Name:      c.Name,
			Days:      Days(c.Status, c.Mastery),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Days < items[j].Days
	})
	return items
}
