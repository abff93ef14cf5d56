package curriculum

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/ui/layout"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

type rowKind int

const (
	rowChapterHeader rowKind = iota
	rowConcept
)

type row struct {
	kind    rowKind
	subject string
	chapter curriculum.Chapter
	concept *curriculum.ConceptDef
}

// accuracy is one concept's all-time answer history.
type accuracy struct {
	Score   float64
	Samples int
}

type accuracyLoadedMsg struct {
	Scores map[string]accuracy
}

// CurriculumScreen displays the subject catalog organized by chapter.
type CurriculumScreen struct {
	events       store.EventRepo
	rows         []row
	cursor       int
	scrollOffset int
	scores       map[string]accuracy
}

var _ screen.Screen = (*CurriculumScreen)(nil)

// New creates a new CurriculumScreen.
func New(events store.EventRepo) *CurriculumScreen {
	var rows []row
	for _, subj := range curriculum.Subjects() {
		for _, ch := range subj.Chapters {
			rows = append(rows, row{kind: rowChapterHeader, subject: subj.Name, chapter: ch})
			for i := range ch.Concepts {
				rows = append(rows, row{kind: rowConcept, subject: subj.Name, chapter: ch, concept: &ch.Concepts[i]})
			}
		}
	}

	s := &CurriculumScreen{
		events: events,
		rows:   rows,
		scores: make(map[string]accuracy),
	}

	// Set cursor to first concept row
	for i, r := range s.rows {
		if r.kind == rowConcept {
			s.cursor = i
			break
		}
	}

	return s
}

func (s *CurriculumScreen) Init() tea.Cmd {
	if s.events == nil {
		return nil
	}
	events := s.events
	rows := s.rows
	return func() tea.Msg {
		ctx := context.Background()
		scores := make(map[string]accuracy)
		for _, r := range rows {
			if r.kind != rowConcept {
				continue
			}
			score, n, err := events.ConceptAccuracy(ctx, r.concept.ID)
			if err != nil || n == 0 {
				continue
			}
			scores[r.concept.ID] = accuracy{Score: score, Samples: n}
		}
		return accuracyLoadedMsg{Scores: scores}
	}
}

func (s *CurriculumScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case accuracyLoadedMsg:
		s.scores = msg.Scores
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextChapter()
		case "shift+tab":
			s.prevChapter()
		case "enter":
			return s, s.selectConcept()
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *CurriculumScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return ""
	}

	// Ensure cursor is visible within the scroll window
	s.adjustScroll(height)

	// Render all visible rows
	var lines []string
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}

		switch r.kind {
		case rowChapterHeader:
			lines = append(lines, s.renderChapterHeader(r, width))
		case rowConcept:
			lines = append(lines, s.renderConceptRow(r, i == s.cursor, width))
		}
		visible++
	}

	return strings.Join(lines, "\n")
}

func (s *CurriculumScreen) Title() string {
	return "Curriculum"
}

// KeyHints returns the key binding hints for the footer.
func (s *CurriculumScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Chapter"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping chapter headers.
func (s *CurriculumScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowConcept {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextChapter jumps the cursor to the first concept in the next chapter.
func (s *CurriculumScreen) nextChapter() {
	currentChapter := s.rows[s.cursor].chapter.ID
	for i := s.cursor + 1; i < len(s.rows); i++ {
		if s.rows[i].kind == rowConcept && s.rows[i].chapter.ID != currentChapter {
			s.cursor = i
			return
		}
	}
}

// prevChapter jumps the cursor to the first concept in the previous chapter.
func (s *CurriculumScreen) prevChapter() {
	currentChapter := s.rows[s.cursor].chapter.ID

	// Find the start of the previous chapter
	prevStart := -1
	var prevChapter string
	for i := s.cursor - 1; i >= 0; i-- {
		if s.rows[i].kind == rowConcept && s.rows[i].chapter.ID != currentChapter {
			prevChapter = s.rows[i].chapter.ID
			prevStart = i
			break
		}
	}
	if prevStart < 0 {
		return
	}

	// Go to the first concept of that chapter
	for i := prevStart; i >= 0; i-- {
		if s.rows[i].kind != rowConcept || s.rows[i].chapter.ID != prevChapter {
			s.cursor = i + 1
			return
		}
	}
	s.cursor = 0
	if s.rows[0].kind != rowConcept {
		s.moveCursor(1)
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *CurriculumScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	// Also show the chapter header above the cursor if possible
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowChapterHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// selectConcept handles enter on the current concept.
func (s *CurriculumScreen) selectConcept() tea.Cmd {
	r := s.rows[s.cursor]
	if r.kind != rowConcept || r.concept == nil {
		return nil
	}

	acc, hasAcc := s.scores[r.concept.ID]
	detail := newConceptDetail(*r.concept, r.subject, r.chapter, acc, hasAcc)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

// renderChapterHeader renders a chapter section header.
func (s *CurriculumScreen) renderChapterHeader(r row, width int) string {
	name := strings.ToUpper(fmt.Sprintf("%s · %s", r.subject, r.chapter.Name))
	styled := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(1, 0, 0, 2).
		Render(name)
	return styled
}

// renderConceptRow renders a single concept row.
func (s *CurriculumScreen) renderConceptRow(r row, selected bool, width int) string {
	if r.concept == nil {
		return ""
	}

	c := r.concept
	mins := fmt.Sprintf("~%d min", c.EstimatedMins)

	accStr := "  not tried"
	acc, ok := s.scores[c.ID]
	if ok {
		accStr = fmt.Sprintf("%3.0f%% (%d)", acc.Score*100, acc.Samples)
	}

	// Calculate column widths
	padding := 4 // left indent
	minsWidth := 8
	accWidth := 11
	spacing := 4
	nameWidth := width - padding - minsWidth - accWidth - spacing
	if nameWidth < 10 {
		nameWidth = 10
	}

	// Truncate name if needed
	name := c.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-1] + "…"
	}

	var nameStyle, minsStyle, accStyle lipgloss.Style
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		minsStyle = lipgloss.NewStyle().Foreground(theme.Primary)
		accStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	} else {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Text)
		minsStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
		accStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
		if ok && acc.Score >= 0.9 {
			accStyle = lipgloss.NewStyle().Foreground(theme.Success)
		}
	}

	// Cursor indicator
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	namePadded := fmt.Sprintf("%-*s", nameWidth, name)
	return fmt.Sprintf("  %s%s  %s  %s",
		cursor,
		nameStyle.Render(namePadded),
		minsStyle.Render(mins),
		accStyle.Render(fmt.Sprintf("%10s", accStr)),
	)
}
