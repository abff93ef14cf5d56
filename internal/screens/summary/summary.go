package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/tutor"
	"github.com/abhisek/tutoriz/internal/ui/layout"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// summaryLoadedMsg carries the completed session for display.
type summaryLoadedMsg struct {
	Session *sess.Session
	Err     error
}

// SummaryScreen shows the wrap-up of a completed session: the narrative,
// highlights, per-concept results, and the review schedule.
type SummaryScreen struct {
	engine    *tutor.Engine
	sessionID string

	session *sess.Session
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen that loads the session on Init.
func New(engine *tutor.Engine, sessionID string) *SummaryScreen {
	return &SummaryScreen{engine: engine, sessionID: sessionID}
}

func (s *SummaryScreen) Init() tea.Cmd {
	eng, id := s.engine, s.sessionID
	return func() tea.Msg {
		loaded, err := eng.GetSession(context.Background(), id)
		return summaryLoadedMsg{Session: loaded, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.session = msg.Session
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n\n  " + s.errMsg)
	}
	if s.session == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Gathering your results...")
	}

	loaded := s.session
	sum := loaded.Summary

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete! ✦"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(chapterLabel(loaded)))
	b.WriteString("\n\n")

	// Stats line.
	accuracy := 0.0
	if loaded.Stats.QuestionsAttempted > 0 {
		accuracy = float64(loaded.Stats.QuestionsCorrect) / float64(loaded.Stats.QuestionsAttempted)
	}
	statsLine := fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %.0f%%    Best streak: %d",
		loaded.Stats.QuestionsAttempted, loaded.Stats.QuestionsCorrect, accuracy*100, loaded.Stats.BestStreak)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Gold).
		Bold(true).
		Render(fmt.Sprintf("⚡ %d XP earned", loaded.Stats.XP)))
	b.WriteString("\n\n")

	if sum != nil && sum.Text != "" {
		text := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(sum.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))

	// Per-concept results.
	if len(loaded.Concepts) > 0 {
		b.WriteString(sectionHeader(width, "Concepts", divider))
		for _, c := range loaded.Concepts {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, conceptLine(c)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if sum != nil && len(sum.Highlights) > 0 {
		b.WriteString(sectionHeader(width, "Highlights", divider))
		for _, h := range sum.Highlights {
			line := lipgloss.NewStyle().Foreground(theme.Success).Render("★ " + h)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if sum != nil && len(sum.PracticeAreas) > 0 {
		b.WriteString(sectionHeader(width, "Keep practicing", divider))
		for _, p := range sum.PracticeAreas {
			line := lipgloss.NewStyle().Foreground(theme.Accent).Render("· " + p)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if sum != nil && len(sum.Review) > 0 {
		b.WriteString(sectionHeader(width, "Review schedule", divider))
		for _, r := range sum.Review {
			day := "tomorrow"
			if r.Days != 1 {
				day = fmt.Sprintf("in %d days", r.Days)
			}
			line := fmt.Sprintf("↻ %s  %s", r.Name,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(day))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// chapterLabel resolves the subject and chapter names, falling back to the
// stored IDs if the curriculum has moved on.
func chapterLabel(loaded *sess.Session) string {
	subjectName, chapterName := loaded.Subject, loaded.Chapter
	if sub, err := curriculum.GetSubject(loaded.Subject); err == nil {
		subjectName = sub.Name
	}
	if ch, err := curriculum.GetChapter(loaded.Subject, loaded.Chapter); err == nil {
		chapterName = ch.Name
	}
	label := subjectName + " · " + chapterName
	if loaded.Summary != nil && loaded.Summary.DurationMins > 0 {
		label += fmt.Sprintf("  ·  %d min", loaded.Summary.DurationMins)
	}
	return label
}

func sectionHeader(width int, title, divider string) string {
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")
	return b.String()
}

func conceptLine(c sess.Concept) string {
	var icon, note string
	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch c.Status {
	case sess.ConceptMastered:
		icon = lipgloss.NewStyle().Foreground(theme.Gold).Render("★")
		note = "mastered"
		style = style.Foreground(theme.Success)
	case sess.ConceptSkipped:
		icon = lipgloss.NewStyle().Foreground(theme.TextDim).Render("↷")
		note = "skipped"
		style = style.Foreground(theme.TextDim)
	default:
		icon = lipgloss.NewStyle().Foreground(theme.Secondary).Render("·")
		note = "in progress"
	}
	return fmt.Sprintf("%s %s  %s",
		icon,
		style.Render(c.Name),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%s, %.0f%% mastery", note, c.Mastery*100)))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
