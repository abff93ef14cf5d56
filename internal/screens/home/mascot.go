package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutoriz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default indigo
	MascotCelebrating                      // Gold, star eyes — concept mastered recently
	MascotAlert                            // Amber, exclamation — reviews waiting
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ω  │
│ a+b │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ω  │
│ a+b │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ω  │
│ a+b │
└─────┘`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
