package mastery

// Alpha is the smoothing factor for the exponential moving average:
// each graded answer pulls the score 30% of the way toward the outcome.
const Alpha = 0.3

// MasteredThreshold is the score at or above which a concept counts as
// mastered.
const MasteredThreshold = 0.7

// NeutralPrior seeds concepts with no diagnostic evidence.
const NeutralPrior = 0.5

// Change records a single mastery update.
type Change struct {
	Before  float64
	After   float64
	Crossed bool // rose from below the threshold to at or above it
}

// Update folds one graded outcome into a mastery score:
//
//	score' = score + Alpha·(outcome − score)
//
// where outcome is 1 for correct and 0 for incorrect. The result is
// clamped to [0, 1].
func Update(score float64, correct bool) Change {
	outcome := 0.0
	if correct {
		outcome = 1.0
	}
	after := Clamp(score + Alpha*(outcome-score))
	return Change{
		Before:  score,
		After:   after,
		Crossed: score < MasteredThreshold && after >= MasteredThreshold,
	}
}

// Mastered reports whether a score meets the mastered bar.
func Mastered(score float64) bool {
	return score >= MasteredThreshold
}

// Clamp bounds a score to [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
