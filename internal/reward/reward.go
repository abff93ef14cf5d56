package reward

// XP amounts per award.
const (
	XPCorrectAnswer = 10
	XPMasteryBonus  = 20
)

// Reason identifies why XP was granted.
type Reason string

const (
	ReasonCorrectAnswer Reason = "correct_answer"
	ReasonMastery       Reason = "mastery"
)

// DisplayName returns a human-readable label for the reason.
func (r Reason) DisplayName() string {
	switch r {
	case ReasonCorrectAnswer:
		return "Correct Answer"
	case ReasonMastery:
		return "Concept Mastered"
	default:
		return string(r)
	}
}

// Icon returns the display icon for the reason.
func (r Reason) Icon() string {
	switch r {
	case ReasonCorrectAnswer:
		return "✓"
	case ReasonMastery:
		return "★"
	default:
		return "+"
	}
}

// Award is a single XP grant.
type Award struct {
	Reason Reason `json:"reason"`
	XP     int    `json:"xp"`
}

// ForAnswer returns the awards earned by one graded answer. A correct
// answer earns XPCorrectAnswer; crossing the mastery bar adds the bonus.
// Incorrect answers earn nothing.
func ForAnswer(correct, mastered bool) []Award {
	if !correct {
		return nil
	}
	awards := []Award{{Reason: ReasonCorrectAnswer, XP: XPCorrectAnswer}}
	if mastered {
		awards = append(awards, Award{Reason: ReasonMastery, XP: XPMasteryBonus})
	}
	return awards
}

// Total sums the XP across awards.
func Total(awards []Award) int {
	total := 0
	for _, a := range awards {
		total += a.XP
	}
	return total
}
