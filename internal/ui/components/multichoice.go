package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// MultiChoice is a selector over a question's options. After submission
// it recolors the options to reveal the correct one.
type MultiChoice struct {
	Prompt    string
	Options   []question.Option
	CorrectID string
	Selected  int
	Submitted bool
	ChosenID  string
}

// NewMultiChoice creates a selector for a multiple-choice question.
func NewMultiChoice(q *question.Question) MultiChoice {
	return MultiChoice{
		Prompt:    q.Prompt,
		Options:   q.Options,
		CorrectID: q.CorrectOptionID,
		Selected:  0,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenID = m.Options[m.Selected].ID
	}

	return m, nil
}

// Choose selects option i directly (number-key shortcut) and submits.
func (m *MultiChoice) Choose(i int) bool {
	if m.Submitted || i < 0 || i >= len(m.Options) {
		return false
	}
	m.Selected = i
	m.Submitted = true
	m.ChosenID = m.Options[i].ID
	return true
}

// View renders the prompt and option list.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Prompt) + "\n\n"

	for i, opt := range m.Options {
		label := string(rune('A' + i))
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt.Text)

		if m.Submitted {
			switch {
			case opt.ID == m.CorrectID:
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			case opt.ID == m.ChosenID:
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			if i == m.Selected {
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
		}
	}

	return s
}

// IsCorrect returns true if the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenID == m.CorrectID
}

// Value returns the chosen option ID, or the highlighted one before
// submission.
func (m MultiChoice) Value() string {
	if m.Submitted {
		return m.ChosenID
	}
	if m.Selected >= 0 && m.Selected < len(m.Options) {
		return m.Options[m.Selected].ID
	}
	return ""
}
