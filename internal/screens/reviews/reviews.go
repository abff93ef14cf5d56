package reviews

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	"github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/ui/layout"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// Entry is one concept waiting on a spaced review. DueAt is the
// session's completion time plus the suggested interval.
type Entry struct {
	ConceptID string
	Name      string
	Days      int
	DueAt     time.Time
	SessionID string
}

// Due reports whether the entry's review date has arrived.
func (e Entry) Due(now time.Time) bool {
	return !now.Before(e.DueAt)
}

// Collect flattens the review suggestions of completed sessions into
// entries. When several sessions suggest the same concept, the most
// recent session wins; List returns sessions newest first, so the first
// sighting is the one kept.
func Collect(sessions []*session.Session, now time.Time) []Entry {
	seen := make(map[string]bool)
	var entries []Entry
	for _, s := range sessions {
		if s.Phase != session.PhaseCompleted || s.Summary == nil {
			continue
		}
		for _, item := range s.Summary.Review {
			if seen[item.ConceptID] {
				continue
			}
			seen[item.ConceptID] = true
			entries = append(entries, Entry{
				ConceptID: item.ConceptID,
				Name:      item.Name,
				Days:      item.Days,
				DueAt:     s.UpdatedAt.Add(time.Duration(item.Days) * 24 * time.Hour),
				SessionID: s.ID,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DueAt.Before(entries[j].DueAt)
	})
	return entries
}

// DueCount returns how many entries are due at now.
func DueCount(entries []Entry, now time.Time) int {
	n := 0
	for _, e := range entries {
		if e.Due(now) {
			n++
		}
	}
	return n
}

type reviewsLoadedMsg struct {
	Entries []Entry
	Err     error
}

// tab indexes the two entry groups.
const (
	tabDue = iota
	tabUpcoming
)

var tabLabels = []string{"DUE NOW", "COMING UP"}

// ReviewsScreen lists concepts whose spaced-review date has arrived or
// is approaching.
type ReviewsScreen struct {
	sessions     store.SessionRepo
	entries      []Entry
	selectedTab  int
	scrollOffset int
	loaded       bool
	now          time.Time
	errMsg       string
}

var _ screen.Screen = (*ReviewsScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewsScreen)(nil)

// New creates a new ReviewsScreen.
func New(sessions store.SessionRepo) *ReviewsScreen {
	return &ReviewsScreen{
		sessions: sessions,
		now:      time.Now(),
	}
}

func (s *ReviewsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		completed, err := s.sessions.List(context.Background(), store.ListOpts{
			Phase: string(session.PhaseCompleted),
		})
		if err != nil {
			return reviewsLoadedMsg{Err: err}
		}
		return reviewsLoadedMsg{Entries: Collect(completed, s.now)}
	}
}

func (s *ReviewsScreen) Title() string {
	return "Reviews"
}

func (s *ReviewsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch group"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReviewsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab":
			s.selectedTab = (s.selectedTab + 1) % len(tabLabels)
			s.scrollOffset = 0
			return s, nil
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
			return s, nil
		case "down", "j":
			filtered := s.filteredEntries()
			if s.scrollOffset < len(filtered)-1 {
				s.scrollOffset++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *ReviewsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading reviews...")
	}

	var b strings.Builder

	due := DueCount(s.entries, s.now)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d due now, %d scheduled\n", due, len(s.entries)-due)))
	b.WriteString("\n")

	// Group tabs.
	var tabs []string
	for i, label := range tabLabels {
		count := due
		if i == tabUpcoming {
			count = len(s.entries) - due
		}
		text := fmt.Sprintf("%s (%d)", label, count)
		if i == s.selectedTab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(text))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(text))
		}
	}
	tabLine := strings.Join(tabs, "     ")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, tabLine))
	b.WriteString("\n\n")

	// Divider.
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	filtered := s.filteredEntries()
	if len(filtered) == 0 {
		empty := "Nothing due. Nice work!"
		if s.selectedTab == tabUpcoming {
			empty = "No upcoming reviews scheduled"
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(empty))
		return b.String()
	}

	// Show visible items within height constraint.
	maxVisible := height - 10
	if maxVisible < 3 {
		maxVisible = 3
	}
	start := s.scrollOffset
	end := start + maxVisible
	if end > len(filtered) {
		end = len(filtered)
	}

	for i := start; i < end; i++ {
		e := filtered[i]
		var when string
		var style lipgloss.Style
		if e.Due(s.now) {
			overdue := int(s.now.Sub(e.DueAt).Hours() / 24)
			when = "due today"
			if overdue >= 1 {
				when = fmt.Sprintf("%dd overdue", overdue)
			}
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		} else {
			when = fmt.Sprintf("in %dd", int(time.Until(e.DueAt).Hours()/24)+1)
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}

		line := fmt.Sprintf("  %-34s %-8s %s", e.Name, fmt.Sprintf("%dd gap", e.Days), when)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(filtered)-end)))
	}

	return b.String()
}

func (s *ReviewsScreen) filteredEntries() []Entry {
	var filtered []Entry
	for _, e := range s.entries {
		if e.Due(s.now) == (s.selectedTab == tabDue) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
