package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/config"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	sessionscreen "github.com/abhisek/tutoriz/internal/screens/session"
	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/tutor"
	"github.com/abhisek/tutoriz/internal/ui/layout"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions []*sess.Session
	Err      error
}

// HistoryScreen lists past sessions, expandable to their concept
// outcomes. Unfinished sessions can be resumed in place.
type HistoryScreen struct {
	engine   *tutor.Engine
	sessions store.SessionRepo
	cfg      *config.Config

	list     []*sess.Session
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil engine disables resuming.
func New(engine *tutor.Engine, sessions store.SessionRepo, cfg *config.Config) *HistoryScreen {
	return &HistoryScreen{
		engine:   engine,
		sessions: sessions,
		cfg:      cfg,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		list, err := s.sessions.List(context.Background(), store.ListOpts{Limit: 50})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: list}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past sessions"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.resumable() {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Resume"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// resumable reports whether the selected session can be picked back up.
func (s *HistoryScreen) resumable() bool {
	if s.engine == nil || s.selected >= len(s.list) {
		return false
	}
	return s.list[s.selected].Phase != sess.PhaseCompleted
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "r", "R":
			if !s.resumable() {
				return s, nil
			}
			resumed := sessionscreen.Resume(s.engine, s.cfg, s.list[s.selected].ID)
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: resumed}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading sessions...")
	}
	if len(s.list) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start one from the home menu!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range s.list {
		dateStr := row.UpdatedAt.Format("Jan 02")

		var accuracy float64
		if row.Stats.QuestionsAttempted > 0 {
			accuracy = float64(row.Stats.QuestionsCorrect) / float64(row.Stats.QuestionsAttempted) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-32s %s  %d questions  %.0f%%  ⚡%d",
			prefix, dateStr, chapterLabel(row), phaseBadge(row.Phase),
			row.Stats.QuestionsAttempted, accuracy, row.Stats.XP)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range detailLines(row) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detail))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// chapterLabel resolves curriculum names, falling back to raw IDs for
// chapters that have since left the seed.
func chapterLabel(row *sess.Session) string {
	subjectName, chapterName := row.Subject, row.Chapter
	if sub, err := curriculum.GetSubject(row.Subject); err == nil {
		subjectName = sub.Name
	}
	if ch, err := curriculum.GetChapter(row.Subject, row.Chapter); err == nil {
		chapterName = ch.Name
	}
	return fmt.Sprintf("%s · %s", subjectName, chapterName)
}

func phaseBadge(p sess.Phase) string {
	switch p {
	case sess.PhaseCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("done       ")
	case sess.PhaseTeaching:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("in progress")
	case sess.PhaseDiagnostic:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render("quiz       ")
	case sess.PhaseWrapUp:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("wrapping up")
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("not started")
	}
}

// detailLines renders the expanded view: one line per planned concept,
// plus the wrap-up text when the session finished.
func detailLines(row *sess.Session) []string {
	if len(row.Concepts) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("    No study plan yet")}
	}

	var lines []string
	for _, c := range row.Concepts {
		var glyph, name string
		switch c.Status {
		case sess.ConceptMastered:
			glyph = lipgloss.NewStyle().Foreground(theme.Gold).Render("★")
			name = lipgloss.NewStyle().Foreground(theme.Success).Render(c.Name)
		case sess.ConceptSkipped:
			glyph = lipgloss.NewStyle().Foreground(theme.TextDim).Render("↷")
			name = lipgloss.NewStyle().Foreground(theme.TextDim).Render(c.Name)
		default:
			glyph = lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
			name = lipgloss.NewStyle().Foreground(theme.Text).Render(c.Name)
		}
		mastery := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%.0f%%", c.Mastery*100))
		lines = append(lines, fmt.Sprintf("    %s %s  %s", glyph, name, mastery))
	}

	if row.Summary != nil && row.Summary.Text != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("    "+row.Summary.Text))
	}
	return lines
}
