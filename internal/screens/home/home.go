package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tutoriz/internal/config"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	"github.com/abhisek/tutoriz/internal/screens/curriculum"
	"github.com/abhisek/tutoriz/internal/screens/history"
	"github.com/abhisek/tutoriz/internal/screens/reviews"
	sessionscreen "github.com/abhisek/tutoriz/internal/screens/session"
	"github.com/abhisek/tutoriz/internal/selfupdate"
	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/tutor"
	"github.com/abhisek/tutoriz/internal/ui/components"
)

// updateCheckMsg carries the release check result. An empty latest means
// nothing to announce.
type updateCheckMsg struct {
	latest string
}

// HomeScreen is the main menu plus a small progress dashboard summed from
// stored sessions.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool

	masteredCount int
	totalXP       int
	reviewsDue    int
	mascotVariant MascotVariant

	needsKey     bool
	version      string
	latestUpdate string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. A nil engine (no LLM API key) leaves the
// session entry disabled; everything else works from the store alone.
func New(engine *tutor.Engine, sessions store.SessionRepo, events store.EventRepo, cfg *config.Config, version string) *HomeScreen {
	var stored []*sess.Session
	if sessions != nil {
		stored, _ = sessions.List(context.Background(), store.ListOpts{})
	}

	now := time.Now()
	masteredCount, recentMastery := masteryTotals(stored, now)
	totalXP := 0
	for _, s := range stored {
		totalXP += s.Stats.XP
	}
	reviewsDue := reviews.DueCount(reviews.Collect(stored, now), now)

	mascotVariant := MascotIdle
	if reviewsDue >= 3 {
		mascotVariant = MascotAlert
	} else if recentMastery {
		mascotVariant = MascotCelebrating
	}

	menuLabels := []string{"START SESSION", "CURRICULUM", "REVIEWS", "PAST SESSIONS", "EXIT"}
	disabled := map[int]bool{0: engine == nil}

	items := []components.MenuItem{
		{Label: menuLabels[0], Disabled: engine == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: sessionscreen.New(engine, cfg)}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: curriculum.New(events)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: reviews.New(sessions)}
			}
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(engine, sessions, cfg)}
			}
		}},
		{Label: menuLabels[4], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:          components.NewMenu(items),
		menuLabels:    menuLabels,
		disabled:      disabled,
		masteredCount: masteredCount,
		totalXP:       totalXP,
		reviewsDue:    reviewsDue,
		mascotVariant: mascotVariant,
		needsKey:      engine == nil,
		version:       version,
	}
}

// masteryTotals counts distinct mastered concepts across all sessions and
// whether any session recorded a mastery in the last day.
func masteryTotals(stored []*sess.Session, now time.Time) (int, bool) {
	mastered := make(map[string]bool)
	recent := false
	for _, s := range stored {
		for _, c := range s.Concepts {
			if c.Status != sess.ConceptMastered {
				continue
			}
			mastered[c.ID] = true
			if now.Sub(s.UpdatedAt) < 24*time.Hour {
				recent = true
			}
		}
	}
	return len(mastered), recent
}

// Init kicks off the release check. Dev builds skip it.
func (h *HomeScreen) Init() tea.Cmd {
	v := h.version
	if v == "" || v == "dev" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(5 * time.Second))
		res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: v})
		if err != nil || !res.UpdateAvailable {
			return updateCheckMsg{}
		}
		return updateCheckMsg{latest: res.LatestVersion}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(updateCheckMsg); ok {
		h.latestUpdate = msg.latest
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}

	sections = append(sections, renderStatsBar(
		h.masteredCount, h.totalXP, h.reviewsDue, cw, compact))

	if compact {
		sections = append(sections, renderHomeMenuCompact(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderHomeMenu(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	}

	if h.needsKey {
		sections = append(sections, renderKeyBanner(cw))
	}
	if h.latestUpdate != "" {
		sections = append(sections, renderUpdateNote(h.latestUpdate, cw))
	}

	content := strings.Join(sections, "\n\n")

	return components.PanelFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
