package question

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Outcome is the result of evaluating a submission against a question.
type Outcome struct {
	Correct bool
	Detail  string
}

// Evaluate scores a submitted answer against the question's expected
// answer. It is pure: no state is read or written. A *FormatError or
// *UnsupportedKindError return means the submission could not be graded;
// callers count those as incorrect attempts.
//
// Normalization rules:
// - Whitespace is trimmed and interior runs collapsed
// - true/false comparison is case-insensitive
// - Numeric submissions accept decimals and simple fractions ("3/4")
// - fill_blank folds case unless CaseSensitive is set
// - short_answer keyword matching is case-insensitive substring
// - match_pairs comparison folds case on both sides
func Evaluate(q *Question, submitted string) (Outcome, error) {
	if q == nil || !q.Kind.Valid() {
		var k Kind
		if q != nil {
			k = q.Kind
		}
		return Outcome{}, &UnsupportedKindError{Kind: k}
	}

	switch q.Kind {
	case KindMultipleChoice:
		return evalMultipleChoice(q, submitted), nil
	case KindTrueFalse:
		return evalTrueFalse(q, submitted)
	case KindNumeric, KindEquation:
		return evalNumeric(q, submitted)
	case KindFillBlank:
		return evalFillBlank(q, submitted), nil
	case KindShortAnswer:
		return evalShortAnswer(q, submitted), nil
	case KindMatchPairs:
		return evalMatchPairs(q, submitted)
	}
	return Outcome{}, &UnsupportedKindError{Kind: q.Kind}
}

func evalMultipleChoice(q *Question, submitted string) Outcome {
	sel := strings.TrimSpace(submitted)
	if sel == "" {
		return Outcome{Correct: false, Detail: "no option selected"}
	}
	if sel == q.CorrectOptionID {
		return Outcome{Correct: true, Detail: "correct option selected"}
	}
	return Outcome{Correct: false, Detail: fmt.Sprintf("option %q is not correct", sel)}
}

func evalTrueFalse(q *Question, submitted string) (Outcome, error) {
	s := strings.TrimSpace(submitted)
	var val bool
	switch {
	case strings.EqualFold(s, "true"):
		val = true
	case strings.EqualFold(s, "false"):
		val = false
	default:
		return Outcome{}, &FormatError{Kind: q.Kind, Reason: fmt.Sprintf("%q is not true or false", submitted)}
	}
	if val == q.BoolAnswer {
		return Outcome{Correct: true, Detail: "correct"}, nil
	}
	return Outcome{Correct: false, Detail: "incorrect"}, nil
}

func evalNumeric(q *Question, submitted string) (Outcome, error) {
	val, err := parseNumber(submitted)
	if err != nil {
		return Outcome{}, &FormatError{Kind: q.Kind, Reason: err.Error()}
	}
	diff := math.Abs(val - q.Target)
	if diff <= q.Tolerance {
		return Outcome{Correct: true, Detail: fmt.Sprintf("within tolerance %g", q.Tolerance)}, nil
	}
	return Outcome{Correct: false, Detail: fmt.Sprintf("outside tolerance %g", q.Tolerance)}, nil
}

func evalFillBlank(q *Question, submitted string) Outcome {
	sub := normalize(submitted)
	if sub == "" {
		return Outcome{Correct: false, Detail: "empty answer"}
	}
	for _, accepted := range q.Accepted {
		acc := normalize(accepted)
		if q.CaseSensitive {
			if sub == acc {
				return Outcome{Correct: true, Detail: "matched accepted answer"}
			}
		} else if strings.EqualFold(sub, acc) {
			return Outcome{Correct: true, Detail: "matched accepted answer"}
		}
	}
	return Outcome{Correct: false, Detail: "no accepted answer matched"}
}

func evalShortAnswer(q *Question, submitted string) Outcome {
	sub := strings.ToLower(normalize(submitted))
	if sub == "" {
		return Outcome{Correct: false, Detail: "empty answer"}
	}
	matched := 0
	for _, kw := range q.Keywords {
		if strings.Contains(sub, strings.ToLower(normalize(kw))) {
			matched++
		}
	}
	need := requiredKeywords(len(q.Keywords))
	detail := fmt.Sprintf("matched %d of %d keywords (need %d)", matched, len(q.Keywords), need)
	return Outcome{Correct: matched >= need, Detail: detail}
}

func evalMatchPairs(q *Question, submitted string) (Outcome, error) {
	got, err := parsePairs(submitted)
	if err != nil {
		return Outcome{}, &FormatError{Kind: q.Kind, Reason: err.Error()}
	}

	want := make(map[string]string, len(q.Pairs))
	for _, p := range q.Pairs {
		want[foldPairKey(p.Left)] = foldPairKey(p.Right)
	}

	matched := 0
	for left, right := range got {
		if want[left] == right {
			matched++
		}
	}
	correct := matched == len(want) && len(got) == len(want)
	detail := fmt.Sprintf("%d of %d pairs correct", matched, len(want))
	return Outcome{Correct: correct, Detail: detail}, nil
}

// requiredKeywords is the short-answer pass bar: at least half of the
// required keywords, never fewer than one.
func requiredKeywords(n int) int {
	need := (n + 1) / 2
	if need < 1 {
		need = 1
	}
	return need
}

// parseNumber parses a decimal or a simple fraction ("a/b") into a float.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	if num, den, err := parseFraction(s); err == nil {
		if den == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return float64(num) / float64(den), nil
	}
	return 0, fmt.Errorf("%q is not a number", s)
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// parsePairs parses "left=right" entries separated by commas or semicolons.
// "->" is accepted in place of "=".
func parsePairs(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty answer")
	}
	entries := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	pairs := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		var left, right string
		if i := strings.Index(entry, "->"); i >= 0 {
			left, right = entry[:i], entry[i+2:]
		} else if i := strings.Index(entry, "="); i >= 0 {
			left, right = entry[:i], entry[i+1:]
		} else {
			return nil, fmt.Errorf("pair %q missing separator", entry)
		}
		left = foldPairKey(left)
		right = foldPairKey(right)
		if left == "" || right == "" {
			return nil, fmt.Errorf("pair %q has an empty side", entry)
		}
		if _, dup := pairs[left]; dup {
			return nil, fmt.Errorf("duplicate left side %q", left)
		}
		pairs[left] = right
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no pairs found")
	}
	return pairs, nil
}

func foldPairKey(s string) string {
	return strings.ToLower(normalize(s))
}

// normalize trims and collapses interior whitespace runs.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
