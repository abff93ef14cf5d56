package curriculum

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	"github.com/abhisek/tutoriz/internal/ui/layout"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// ConceptDetailScreen shows details for a single concept.
type ConceptDetailScreen struct {
	concept curriculum.ConceptDef
	subject string
	chapter curriculum.Chapter
	acc     accuracy
	hasAcc  bool
}

var _ screen.Screen = (*ConceptDetailScreen)(nil)
var _ screen.KeyHintProvider = (*ConceptDetailScreen)(nil)

func newConceptDetail(c curriculum.ConceptDef, subject string, chapter curriculum.Chapter, acc accuracy, hasAcc bool) *ConceptDetailScreen {
	return &ConceptDetailScreen{concept: c, subject: subject, chapter: chapter, acc: acc, hasAcc: hasAcc}
}

func (d *ConceptDetailScreen) Init() tea.Cmd { return nil }
func (d *ConceptDetailScreen) Title() string { return d.concept.Name }

func (d *ConceptDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "q":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return d, nil
}

func (d *ConceptDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (d *ConceptDetailScreen) View(width, height int) string {
	c := d.concept

	var b strings.Builder

	// Concept name + chapter.
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("  %s", c.Name)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s · %s", d.subject, d.chapter.Name)))
	b.WriteString("\n\n")

	// Metadata.
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	pos := curriculum.Order(c.ID) + 1
	b.WriteString(dimStyle.Render("  Position:   ") + valStyle.Render(fmt.Sprintf("%d of %d in chapter", pos, len(d.chapter.Concepts))) + "\n")
	b.WriteString(dimStyle.Render("  Estimated:  ") + valStyle.Render(fmt.Sprintf("%d minutes", c.EstimatedMins)) + "\n")
	if d.hasAcc {
		accStyle := valStyle
		if d.acc.Score >= 0.9 {
			accStyle = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(dimStyle.Render("  Accuracy:   ") + accStyle.Render(fmt.Sprintf("%.0f%% over %d answers", d.acc.Score*100, d.acc.Samples)) + "\n")
	}
	b.WriteString("\n")

	// Keywords feed question and lesson generation.
	if len(c.Keywords) > 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  Covers"))
		b.WriteString("\n")
		for _, kw := range c.Keywords {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  · %s", kw)))
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
