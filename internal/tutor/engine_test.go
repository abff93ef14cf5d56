package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
)

// mockSessionRepo implements store.SessionRepo over JSON documents so
// uncommitted in-memory mutations never leak back on reload, matching
// the real store.
type mockSessionRepo struct {
	docs    map[string]string
	saveErr error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{docs: make(map[string]string)}
}

func (m *mockSessionRepo) Save(_ context.Context, s *session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	s.Version++
	s.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.docs[s.ID] = string(doc)
	return nil
}

func (m *mockSessionRepo) Load(_ context.Context, id string) (*session.Session, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	var s session.Session
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *mockSessionRepo) List(_ context.Context, opts store.ListOpts) ([]*session.Session, error) {
	var out []*session.Session
	for _, doc := range m.docs {
		var s session.Session
		if err := json.Unmarshal([]byte(doc), &s); err != nil {
			return nil, err
		}
		if opts.Phase != "" && string(s.Phase) != opts.Phase {
			continue
		}
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

// mockEventRepo implements store.EventRepo for engine tests.
type mockEventRepo struct {
	answers  []store.AnswerEventData
	hints    []store.HintEventData
	mastery  []store.MasteryEventData
	sessions []store.SessionEventData
}

func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	m.answers = append(m.answers, d)
	return nil
}
func (m *mockEventRepo) AppendHintEvent(_ context.Context, d store.HintEventData) error {
	m.hints = append(m.hints, d)
	return nil
}
func (m *mockEventRepo) AppendMasteryEvent(_ context.Context, d store.MasteryEventData) error {
	m.mastery = append(m.mastery, d)
	return nil
}
func (m *mockEventRepo) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	m.sessions = append(m.sessions, d)
	return nil
}
func (m *mockEventRepo) LLMUsageByPurpose(_ context.Context) ([]store.LLMUsageRow, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(_ context.Context) ([]store.LLMUsageRow, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryLLMEvents(_ context.Context, _ int) ([]store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(_ context.Context, _ int64) (*store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) ConceptAccuracy(_ context.Context, _ string) (float64, int, error) {
	return 0, 0, nil
}

// testEngine bundles an engine with its mock collaborators.
type testEngine struct {
	eng      *Engine
	sessions *mockSessionRepo
	events   *mockEventRepo
	gen      *contentgen.Mock
}

func newTestEngine(t *testing.T, cfg Config) *testEngine {
	t.Helper()
	if cfg.GenTimeout == 0 {
		cfg.GenTimeout = time.Second
	}
	te := &testEngine{
		sessions: newMockSessionRepo(),
		events:   &mockEventRepo{},
		gen:      contentgen.NewMock(),
	}
	te.eng = New(te.sessions, te.events, te.gen, cfg)
	return te
}

func (te *testEngine) create(t *testing.T) *session.Session {
	t.Helper()
	s, err := te.eng.CreateSession(context.Background(), "default", "algebra", "linear-equations", session.Profile{Name: "Ana"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func (te *testEngine) reload(t *testing.T, id string) *session.Session {
	t.Helper()
	s, err := te.eng.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	return s
}

// answerFor computes a correct submission for any question the mock
// generator produces.
func answerFor(t *testing.T, q *question.Question) string {
	t.Helper()
	switch q.Kind {
	case question.KindMultipleChoice:
		return q.CorrectOptionID
	case question.KindTrueFalse:
		if q.BoolAnswer {
			return "true"
		}
		return "false"
	case question.KindNumeric, question.KindEquation:
		return strconv.FormatFloat(q.Target, 'f', -1, 64)
	case question.KindFillBlank:
		return q.Accepted[0]
	case question.KindShortAnswer:
		return strings.Join(q.Keywords, " ")
	case question.KindMatchPairs:
		parts := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			parts = append(parts, fmt.Sprintf("%s=%s", p.Left, p.Right))
		}
		return strings.Join(parts, ", ")
	}
	t.Fatalf("no answer strategy for kind %q", q.Kind)
	return ""
}

// wrongAnswer grades incorrect for every question kind.
const wrongAnswer = "zzz"

func actionKinds(res *Result) []ActionKind {
	out := make([]ActionKind, 0, len(res.Actions))
	for _, a := range res.Actions {
		out = append(out, a.Kind)
	}
	return out
}

func issuedQuestion(t *testing.T, res *Result) *question.Question {
	t.Helper()
	a := res.Find(ActionQuestionIssued)
	if a == nil {
		t.Fatalf("no question issued, got actions %v", actionKinds(res))
	}
	return a.Question
}

// runDiagnostic starts the session and answers every diagnostic question,
// answering correctly when pass returns true for the question's concept
// and position. It returns once the session enters planning.
func runDiagnostic(t *testing.T, te *testEngine, id string, pass func(conceptID string, n int) bool) {
	t.Helper()
	ctx := context.Background()
	res, err := te.eng.Start(ctx, id)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for n := 0; ; n++ {
		if n > 20 {
			t.Fatal("diagnostic did not terminate")
		}
		q := issuedQuestion(t, res)
		ans := wrongAnswer
		if pass(q.ConceptID, n) {
			ans = answerFor(t, q)
		}
		if _, err := te.eng.SubmitAnswer(ctx, id, ans); err != nil {
			t.Fatalf("submit diagnostic answer %d: %v", n, err)
		}
		res, err = te.eng.Next(ctx, id)
		if err != nil {
			t.Fatalf("next after answer %d: %v", n, err)
		}
		if res.Phase == session.PhasePlanning {
			return
		}
	}
}

func passAll(string, int) bool { return true }
func failAll(string, int) bool { return false }

func TestCreateSession(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)

	if s.Phase != session.PhaseNotStarted {
		t.Errorf("phase = %q, want %q", s.Phase, session.PhaseNotStarted)
	}
	if s.Version != 1 {
		t.Errorf("version = %d, want 1", s.Version)
	}
	if s.Diagnostic.MaxQuestions != 6 {
		t.Errorf("diagnostic budget = %d, want 6", s.Diagnostic.MaxQuestions)
	}
	if len(te.events.sessions) != 1 || te.events.sessions[0].Action != "created" {
		t.Errorf("session events = %+v, want one created event", te.events.sessions)
	}

	stored := te.reload(t, s.ID)
	if stored.Subject != "algebra" || stored.Chapter != "linear-equations" {
		t.Errorf("stored subject/chapter = %q/%q", stored.Subject, stored.Chapter)
	}
}

func TestCreateSessionUnknownChapter(t *testing.T) {
	te := newTestEngine(t, Config{})
	if _, err := te.eng.CreateSession(context.Background(), "default", "algebra", "calculus", session.Profile{}); err == nil {
		t.Fatal("expected error for unknown chapter")
	}
	if _, err := te.eng.CreateSession(context.Background(), "default", "botany", "linear-equations", session.Profile{}); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}

func TestCreateSessionCustomBudget(t *testing.T) {
	te := newTestEngine(t, Config{MaxDiagnostic: 3})
	s := te.create(t)
	if s.Diagnostic.MaxQuestions != 3 {
		t.Errorf("diagnostic budget = %d, want 3", s.Diagnostic.MaxQuestions)
	}
}

func TestStartIssuesFirstDiagnosticQuestion(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)

	res, err := te.eng.Start(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if res.Phase != session.PhaseDiagnostic {
		t.Errorf("phase = %q, want diagnostic", res.Phase)
	}
	pc := res.Find(ActionPhaseChanged)
	if pc == nil || pc.From != session.PhaseNotStarted || pc.To != session.PhaseDiagnostic {
		t.Errorf("phase change action = %+v", pc)
	}
	qa := res.Find(ActionQuestionIssued)
	if qa == nil {
		t.Fatalf("no question issued, actions %v", actionKinds(res))
	}
	if qa.Asked != 1 || qa.Max != 6 {
		t.Errorf("progress = %d/%d, want 1/6", qa.Asked, qa.Max)
	}
	if qa.AttemptsRemaining != 1 {
		t.Errorf("diagnostic attempts = %d, want 1", qa.AttemptsRemaining)
	}

	req := te.gen.QuestionCalls[0]
	if req.Purpose != "diagnostic" {
		t.Errorf("purpose = %q, want diagnostic", req.Purpose)
	}
	if req.Kind != question.KindMultipleChoice {
		t.Errorf("first kind = %q, want multiple_choice", req.Kind)
	}

	stored := te.reload(t, s.ID)
	if stored.Active == nil {
		t.Fatal("no active question persisted")
	}
}

func TestStartTwiceRejected(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	if _, err := te.eng.Start(context.Background(), s.ID); err != nil {
		t.Fatalf("first start: %v", err)
	}

	_, err := te.eng.Start(context.Background(), s.ID)
	var pe *PhaseError
	if !errors.As(err, &pe) {
		t.Fatalf("second start error = %v, want PhaseError", err)
	}
	if pe.Phase != session.PhaseDiagnostic {
		t.Errorf("error phase = %q, want diagnostic", pe.Phase)
	}
}

func TestDiagnosticRotatesConceptsAndKinds(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	runDiagnostic(t, te, s.ID, passAll)

	wantConcepts := []string{
		"alg-variables", "alg-one-step", "alg-two-step", "alg-slope", "alg-graphing",
		"alg-variables", // least-tested wraps back to the chapter start
	}
	wantKinds := []question.Kind{
		question.KindMultipleChoice, question.KindTrueFalse, question.KindNumeric,
		question.KindMultipleChoice, question.KindTrueFalse, question.KindNumeric,
	}
	if len(te.gen.QuestionCalls) != 6 {
		t.Fatalf("question calls = %d, want 6", len(te.gen.QuestionCalls))
	}
	for i, req := range te.gen.QuestionCalls {
		if req.ConceptID != wantConcepts[i] {
			t.Errorf("call %d concept = %q, want %q", i, req.ConceptID, wantConcepts[i])
		}
		if req.Kind != wantKinds[i] {
			t.Errorf("call %d kind = %q, want %q", i, req.Kind, wantKinds[i])
		}
	}
}

func TestDiagnosticExcludesAskedPrompts(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	runDiagnostic(t, te, s.ID, passAll)

	last := te.gen.QuestionCalls[5]
	if len(last.Exclude) == 0 {
		t.Fatal("expected exclusion list on later questions")
	}
	first := te.gen.QuestionCalls[0]
	if len(first.Exclude) != 0 {
		t.Errorf("first question exclusions = %v, want none", first.Exclude)
	}
}

func TestDiagnosticTerminationRegardlessOfCorrectness(t *testing.T) {
	for name, pass := range map[string]func(string, int) bool{
		"all correct": passAll,
		"all wrong":   failAll,
	} {
		t.Run(name, func(t *testing.T) {
			te := newTestEngine(t, Config{})
			s := te.create(t)
			runDiagnostic(t, te, s.ID, pass)
			if got := te.reload(t, s.ID).Phase; got != session.PhasePlanning {
				t.Errorf("phase = %q, want planning", got)
			}
			if n := len(te.events.answers); n != 6 {
				t.Errorf("answer events = %d, want 6", n)
			}
		})
	}
}

func TestSubmitWithoutQuestion(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	if _, err := te.eng.Start(context.Background(), s.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := te.eng.SubmitAnswer(context.Background(), s.ID, "4"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := te.eng.SubmitAnswer(context.Background(), s.ID, "4")
	if !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("second submit error = %v, want ErrNoActiveQuestion", err)
	}
}

func TestSubmitInWrongPhase(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)

	_, err := te.eng.SubmitAnswer(context.Background(), s.ID, "4")
	var pe *PhaseError
	if !errors.As(err, &pe) {
		t.Fatalf("submit in not_started error = %v, want PhaseError", err)
	}
	if pe.Phase != session.PhaseNotStarted {
		t.Errorf("error phase = %q", pe.Phase)
	}
	if te.reload(t, s.ID).Phase != session.PhaseNotStarted {
		t.Error("rejected operation mutated the session")
	}
}

func TestUnknownSession(t *testing.T) {
	te := newTestEngine(t, Config{})

	var ue *UnknownSessionError
	if _, err := te.eng.Next(context.Background(), "nope"); !errors.As(err, &ue) {
		t.Errorf("next error = %v, want UnknownSessionError", err)
	}
	if _, err := te.eng.SubmitAnswer(context.Background(), "nope", "4"); !errors.As(err, &ue) {
		t.Errorf("submit error = %v, want UnknownSessionError", err)
	}
	if _, err := te.eng.GetSession(context.Background(), "nope"); !errors.As(err, &ue) {
		t.Errorf("get error = %v, want UnknownSessionError", err)
	}
}

func TestBuildPlanWeakestFirst(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	// Wrong on variables (both asks) and two-step, correct elsewhere.
	runDiagnostic(t, te, s.ID, func(conceptID string, _ int) bool {
		return conceptID != "alg-variables" && conceptID != "alg-two-step"
	})

	res, err := te.eng.Next(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if res.Phase != session.PhaseTeaching {
		t.Errorf("phase = %q, want teaching", res.Phase)
	}
	pb := res.Find(ActionPlanBuilt)
	if pb == nil {
		t.Fatalf("no plan action, actions %v", actionKinds(res))
	}
	if pb.Narrative == "" {
		t.Error("plan narrative is empty")
	}

	var gotOrder []string
	for _, entry := range pb.Plan.Entries {
		gotOrder = append(gotOrder, entry.ConceptID)
	}
	// Ties at 0 and at 1 keep chapter order.
	wantOrder := []string{"alg-variables", "alg-two-step", "alg-one-step", "alg-slope", "alg-graphing"}
	if strings.Join(gotOrder, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("plan order = %v, want %v", gotOrder, wantOrder)
	}

	stored := te.reload(t, s.ID)
	if len(stored.Concepts) != 5 {
		t.Fatalf("planned concepts = %d, want all 5", len(stored.Concepts))
	}
	first := stored.Concepts[0]
	if first.ID != "alg-variables" || first.Mastery != 0 || first.Status != session.ConceptNotStarted {
		t.Errorf("first concept = %+v", first)
	}
	if stored.Current != 0 {
		t.Errorf("current = %d, want 0", stored.Current)
	}
}

func TestBuildPlanUntestedConceptsEnterAtNeutralPrior(t *testing.T) {
	te := newTestEngine(t, Config{MaxDiagnostic: 3})
	s := te.create(t)
	runDiagnostic(t, te, s.ID, passAll)

	res, err := te.eng.Next(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	pb := res.Find(ActionPlanBuilt)
	if pb == nil {
		t.Fatal("no plan action")
	}
	if len(pb.Plan.Entries) != 5 {
		t.Fatalf("plan entries = %d, want 5 (untested concepts included)", len(pb.Plan.Entries))
	}
	// Slope and graphing were never asked; they lead the plan at the
	// neutral prior ahead of the three tested perfect scores.
	if pb.Plan.Entries[0].ConceptID != "alg-slope" || pb.Plan.Entries[0].Score != 0.5 {
		t.Errorf("first entry = %+v, want alg-slope at 0.5", pb.Plan.Entries[0])
	}
	if pb.Plan.Entries[1].ConceptID != "alg-graphing" {
		t.Errorf("second entry = %q, want alg-graphing", pb.Plan.Entries[1].ConceptID)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	te := newTestEngine(t, Config{})
	a := te.create(t)
	b := te.create(t)

	all, err := te.eng.ListSessions(context.Background(), store.ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("sessions = %d, want 2", len(all))
	}

	if err := te.eng.DeleteSession(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var ue *UnknownSessionError
	if _, err := te.eng.GetSession(context.Background(), a.ID); !errors.As(err, &ue) {
		t.Errorf("get deleted error = %v, want UnknownSessionError", err)
	}
	if _, err := te.eng.GetSession(context.Background(), b.ID); err != nil {
		t.Errorf("other session gone too: %v", err)
	}
}
