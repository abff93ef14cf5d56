package home

import (
	"context"
	"strings"
	"testing"
	"time"

	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/abhisek/tutoriz/internal/tutor"
)

// stubSessions serves a fixed list, newest first.
type stubSessions struct {
	list []*sess.Session
}

func (s stubSessions) Save(_ context.Context, _ *sess.Session) error { return nil }
func (s stubSessions) Load(_ context.Context, _ string) (*sess.Session, error) {
	return nil, store.ErrNotFound
}
func (s stubSessions) List(_ context.Context, _ store.ListOpts) ([]*sess.Session, error) {
	return s.list, nil
}
func (s stubSessions) Delete(_ context.Context, _ string) error { return nil }

func masteredSession(id string, conceptID string, updated time.Time) *sess.Session {
	return &sess.Session{
		ID:    id,
		Phase: sess.PhaseCompleted,
		Concepts: []sess.Concept{
			{ID: conceptID, Name: conceptID, Status: sess.ConceptMastered, Mastery: 0.8},
		},
		Stats:     sess.Stats{XP: 55},
		UpdatedAt: updated,
	}
}

func TestStatsSummedFromStore(t *testing.T) {
	old := time.Now().Add(-30 * 24 * time.Hour)
	repo := stubSessions{list: []*sess.Session{
		masteredSession("s2", "alg-two-step", old),
		masteredSession("s1", "alg-one-step", old),
	}}

	h := New(nil, repo, nil, nil, "dev")
	view := h.View(120, 40)

	if !strings.Contains(view, "★ 2 MASTERED") {
		t.Error("view missing the mastered count")
	}
	if !strings.Contains(view, "⚡ 110 XP") {
		t.Error("view missing the XP total")
	}
}

func TestStartDisabledWithoutEngine(t *testing.T) {
	h := New(nil, stubSessions{}, nil, nil, "dev")

	if !h.disabled[0] {
		t.Error("session entry should be disabled without an engine")
	}
	if h.menu.Selected != 1 {
		t.Errorf("initial selection = %d, want the first enabled entry", h.menu.Selected)
	}
	if !strings.Contains(h.View(120, 40), "Set an LLM API key") {
		t.Error("view missing the API key banner")
	}
}

func TestStartEnabledWithEngine(t *testing.T) {
	engine := tutor.New(nil, nil, nil, tutor.Config{})
	h := New(engine, stubSessions{}, nil, nil, "dev")

	if h.disabled[0] {
		t.Error("session entry should be enabled")
	}
	if h.menu.Selected != 0 {
		t.Errorf("initial selection = %d, want 0", h.menu.Selected)
	}
	if strings.Contains(h.View(120, 40), "Set an LLM API key") {
		t.Error("banner should not show when an engine is wired")
	}
}

func TestMascotCelebratesRecentMastery(t *testing.T) {
	repo := stubSessions{list: []*sess.Session{
		masteredSession("s1", "alg-one-step", time.Now().Add(-time.Hour)),
	}}
	h := New(nil, repo, nil, nil, "dev")
	if h.mascotVariant != MascotCelebrating {
		t.Errorf("mascot = %d, want celebrating", h.mascotVariant)
	}
}

func TestMascotAlertsOnDueReviews(t *testing.T) {
	finished := time.Now().Add(-10 * 24 * time.Hour)
	s := masteredSession("s1", "alg-one-step", finished)
	s.Summary = &sess.Summary{Review: []sess.ReviewItem{
		{ConceptID: "a", Name: "A", Days: 1},
		{ConceptID: "b", Name: "B", Days: 1},
		{ConceptID: "c", Name: "C", Days: 3},
	}}

	h := New(nil, stubSessions{list: []*sess.Session{s}}, nil, nil, "dev")
	if h.reviewsDue != 3 {
		t.Fatalf("reviewsDue = %d, want 3", h.reviewsDue)
	}
	if h.mascotVariant != MascotAlert {
		t.Errorf("mascot = %d, want alert", h.mascotVariant)
	}
}

func TestInitSkipsCheckForDevBuilds(t *testing.T) {
	h := New(nil, stubSessions{}, nil, nil, "dev")
	if h.Init() != nil {
		t.Error("dev builds should not check for releases")
	}
}

func TestUpdateNoteShown(t *testing.T) {
	h := New(nil, stubSessions{}, nil, nil, "dev")

	scr, _ := h.Update(updateCheckMsg{latest: "v1.2.0"})
	if !strings.Contains(scr.View(120, 40), "New version v1.2.0 available") {
		t.Error("view missing the update note")
	}
}
