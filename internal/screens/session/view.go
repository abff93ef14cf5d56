package session

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/question"
	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// markdownCache wraps a glamour renderer rebuilt only when the wrap width
// changes.
type markdownCache struct {
	renderer *glamour.TermRenderer
	width    int
}

// render renders markdown at the given wrap width, falling back to the
// raw text when the renderer is unavailable.
func (c *markdownCache) render(md string, width int) string {
	w := min(width-8, 76)
	if w < 20 {
		w = 20
	}
	if c.renderer == nil || c.width != w {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(w),
		)
		if err != nil {
			return md
		}
		c.renderer = r
		c.width = w
	}
	out, err := c.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (s *SessionScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width)
	}
	switch s.stage {
	case stageChoose:
		return s.renderChoose(width)
	case stageLoading:
		return renderLoading(width, s.loadingNote)
	case stagePlan:
		return s.renderPlan(width)
	case stageTeaching:
		return s.renderTeaching(width)
	case stageQuestion:
		return s.renderQuestionView(width)
	case stageFeedback:
		return s.renderFeedback(width)
	case stageError:
		return renderError(width, s.errMsg)
	}
	return ""
}

func (s *SessionScreen) renderChoose(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("What should we work on today?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.chooser.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("A short check first, then a plan built around what you need."))
	return b.String()
}

func renderLoading(width int, note string) string {
	if note == "" {
		note = "One moment..."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  ✦ " + note)
}

func (s *SessionScreen) renderPlan(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Your study plan"))
	b.WriteString("\n\n")

	if s.narrative != "" {
		narrative := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(s.narrative)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, narrative))
		b.WriteString("\n\n")
	}

	var list strings.Builder
	for i, entry := range s.planEntries {
		list.WriteString(fmt.Sprintf("%d. %s %s  %s\n",
			i+1,
			priorityChip(entry.Priority),
			entry.Name,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("~%d min", entry.EstimatedMins)),
		))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("About %d minutes in all", s.planMins)))
	b.WriteString("\n\n")
	b.WriteString(pressAnyKey(width, "Press any key to begin..."))
	return b.String()
}

func priorityChip(p plan.Priority) string {
	switch p {
	case plan.PriorityHigh:
		return lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("●")
	case plan.PriorityMedium:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("●")
	}
}

func (s *SessionScreen) renderTeaching(width int) string {
	t := s.teaching
	if t == nil {
		return renderLoading(width, "Preparing the lesson...")
	}

	var b strings.Builder
	b.WriteString(s.renderHeaderLine(width))
	b.WriteString("\n")

	body := s.mdCache.render(t.markdown, width)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	b.WriteString("\n\n")
	b.WriteString(pressAnyKey(width, "Press any key for a practice question..."))
	return b.String()
}

func (s *SessionScreen) renderQuestionView(width int) string {
	q := s.active
	if q == nil {
		return renderLoading(width, "Writing the next question...")
	}

	var b strings.Builder
	b.WriteString(s.renderHeaderLine(width))
	b.WriteString("\n\n")

	if s.mcActive {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(mcHelp(q)))
	} else {
		prompt := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Bold(true).
			Render(q.Prompt)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
		b.WriteString("\n\n")

		if q.Kind == question.KindMatchPairs {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderPairBoard(q)))
			b.WriteString("\n")
		}

		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		if help := textHelp(q.Kind); help != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(help))
		}
	}

	b.WriteString(s.renderHintArea(width))
	return b.String()
}

// renderHeaderLine shows where the session stands: the concept under
// instruction or the diagnostic progress, plus running tallies.
func (s *SessionScreen) renderHeaderLine(width int) string {
	var left, right string
	if s.phase == sess.PhaseDiagnostic {
		left = lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  Quick check")
		if s.diagMax > 0 {
			right = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Question %d of %d", s.diagAsked, s.diagMax))
		}
	} else {
		name := s.conceptName
		if name == "" {
			name = "Practice"
		}
		left = lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  " + name)
		parts := []string{fmt.Sprintf("tries left %d", s.attemptsLeft)}
		if s.xpEarned > 0 {
			parts = append(parts, fmt.Sprintf("⚡ %d XP", s.xpEarned))
		}
		right = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(strings.Join(parts, "   "))
	}

	line := left
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap > 0 {
		line += strings.Repeat(" ", gap) + right
	}

	divider := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-4, 1)))
	return line + "\n" + divider
}

func (s *SessionScreen) renderHintArea(width int) string {
	var b strings.Builder
	if s.hintPending {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Thinking of a hint..."))
	} else if s.hint != "" {
		b.WriteString("\n\n")
		hint := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("Hint %d: %s", s.hintNum, s.hint))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hint))
	}
	if s.hintNote != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.hintNote))
	}
	return b.String()
}

func mcHelp(q *question.Question) string {
	if q.Kind == question.KindTrueFalse {
		return "\nT / F, or arrows + Enter"
	}
	return fmt.Sprintf("\nPick 1-%d, or arrows + Enter", len(q.Options))
}

func textHelp(k question.Kind) string {
	switch k {
	case question.KindNumeric, question.KindEquation:
		return "Decimals and fractions both work"
	case question.KindMatchPairs:
		return "Format: left = right, separated by commas"
	default:
		return ""
	}
}

// renderPairBoard lists both sides of a matching question. The right
// column is sorted so its order gives nothing away.
func renderPairBoard(q *question.Question) string {
	rights := make([]string, 0, len(q.Pairs))
	for _, p := range q.Pairs {
		rights = append(rights, p.Right)
	}
	sort.Strings(rights)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Match these:"))
	b.WriteString("\n")
	for _, p := range q.Pairs {
		b.WriteString("  · " + p.Left + "\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("with:"))
	b.WriteString("\n")
	for _, r := range rights {
		b.WriteString("  · " + r + "\n")
	}
	return b.String()
}

func (s *SessionScreen) renderFeedback(width int) string {
	fb := s.fb
	if fb == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")

	switch {
	case fb.skipped:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Bold(true).
			Render(fmt.Sprintf("Skipped %s", fb.skippedName)))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("It will come back in your reviews."))
		b.WriteString("\n\n")

	case fb.correct:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("✔ Correct!"))
		b.WriteString("\n\n")

	default:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("✘ Not quite"))
		b.WriteString("\n\n")
	}

	if s.phase == sess.PhaseDiagnostic && fb.diagMax > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Question %d of %d answered", fb.diagAsked, fb.diagMax)))
		b.WriteString("\n\n")
	}

	if fb.text != "" {
		text := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(fb.text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
		b.WriteString("\n\n")
	}

	if fb.resolved() && !fb.correct && s.active != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Answer: "+displayAnswer(s.active)))
		b.WriteString("\n")
	}
	if fb.resolved() && s.active != nil && s.active.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.TextDim).
			Render(s.active.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if fb.xp > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Gold).
			Bold(true).
			Render(fmt.Sprintf("+%d XP", fb.xp)))
		b.WriteString("\n")
	}

	if fb.mastered {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Gold).
			Bold(true).
			Render("★ Concept mastered!"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(fmt.Sprintf("%s at %.0f%% mastery", fb.masteredName, fb.mastery*100)))
		b.WriteString("\n")
	}

	switch {
	case fb.retry:
		tries := "tries"
		if fb.attemptsLeft == 1 {
			tries = "try"
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("%d %s left. Give it another go!", fb.attemptsLeft, tries)))
		b.WriteString("\n")
	case fb.reteach:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Secondary).
			Render(fmt.Sprintf("Let's walk through %s once more.", fb.reteachName)))
		b.WriteString("\n")
	}

	if fb.advancedName != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Secondary).
			Render("Next up: "+fb.advancedName))
		b.WriteString("\n")
	}
	if fb.wrapUp {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Primary).
			Bold(true).
			Render("That's every concept in the plan!"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pressAnyKey(width, "Press any key to continue..."))
	return b.String()
}

// displayAnswer renders the expected answer of a resolved question.
func displayAnswer(q *question.Question) string {
	switch q.Kind {
	case question.KindMultipleChoice:
		for _, opt := range q.Options {
			if opt.ID == q.CorrectOptionID {
				return opt.Text
			}
		}
		return q.CorrectOptionID
	case question.KindTrueFalse:
		if q.BoolAnswer {
			return "True"
		}
		return "False"
	case question.KindNumeric, question.KindEquation:
		return strconv.FormatFloat(q.Target, 'g', -1, 64)
	case question.KindFillBlank:
		if len(q.Accepted) > 0 {
			return q.Accepted[0]
		}
	case question.KindShortAnswer:
		return "mentions: " + strings.Join(q.Keywords, ", ")
	case question.KindMatchPairs:
		parts := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			parts = append(parts, p.Left+" = "+p.Right)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress is saved. Resume any time from Past sessions."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Something went wrong: %s\n\n  Press R to retry, any other key to go back.", errMsg))
}

func pressAnyKey(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
