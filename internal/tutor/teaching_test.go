package tutor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/session"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// startTeaching drives a fresh session through diagnostic and planning
// and returns its ID with the session in the teaching phase.
func startTeaching(t *testing.T, te *testEngine, pass func(string, int) bool) string {
	t.Helper()
	s := te.create(t)
	runDiagnostic(t, te, s.ID, pass)
	res, err := te.eng.Next(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if res.Phase != session.PhaseTeaching {
		t.Fatalf("phase after plan = %q, want teaching", res.Phase)
	}
	return s.ID
}

// neutralStart gives a session whose first teachable concept sits at the
// neutral prior: a three-question diagnostic never reaches alg-slope, so
// it leads the plan at 0.5.
func neutralStart(t *testing.T) (*testEngine, string) {
	t.Helper()
	te := newTestEngine(t, Config{MaxDiagnostic: 3})
	id := startTeaching(t, te, passAll)
	return te, id
}

func TestTeachingServesLessonAndQuestion(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	ta := res.Find(ActionTeaching)
	if ta == nil {
		t.Fatalf("no teaching action, got %v", actionKinds(res))
	}
	if ta.ConceptID != "alg-slope" {
		t.Errorf("teaching concept = %q, want alg-slope", ta.ConceptID)
	}
	if ta.Teaching.Markdown == "" || ta.Teaching.Title == "" {
		t.Errorf("teaching content incomplete: %+v", ta.Teaching)
	}
	qa := res.Find(ActionQuestionIssued)
	if qa == nil {
		t.Fatal("no practice question issued")
	}
	if qa.Question.ConceptID != "alg-slope" {
		t.Errorf("question concept = %q, want alg-slope", qa.Question.ConceptID)
	}
	if qa.AttemptsRemaining != session.MaxAttempts {
		t.Errorf("attempts = %d, want %d", qa.AttemptsRemaining, session.MaxAttempts)
	}

	stored := te.reload(t, id)
	if got := stored.Concepts[0].Status; got != session.ConceptInProgress {
		t.Errorf("concept status = %q, want in_progress", got)
	}

	// A second advance re-presents the outstanding question untouched.
	again, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("re-present: %v", err)
	}
	if got := issuedQuestion(t, again); got.ID != qa.Question.ID {
		t.Errorf("re-presented question %q, want %q", got.ID, qa.Question.ID)
	}
	if te.reload(t, id).Version != stored.Version {
		t.Error("re-presenting a question mutated the session")
	}
}

func TestCorrectAnswerEarnsXPAndFreshQuestion(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	q := issuedQuestion(t, res)

	res, err = te.eng.SubmitAnswer(ctx, id, answerFor(t, q))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	fb := res.Find(ActionFeedback)
	if fb == nil || !fb.Correct || fb.Feedback == "" {
		t.Errorf("feedback action = %+v", fb)
	}
	xp := res.Find(ActionXPAwarded)
	if xp == nil || xp.XP != 10 {
		t.Errorf("xp action = %+v, want 10", xp)
	}
	if res.Find(ActionConceptMastered) != nil {
		t.Error("mastered after one answer from the neutral prior")
	}
	next := issuedQuestion(t, res)
	if next.Prompt == q.Prompt {
		t.Error("same question re-issued after a correct answer")
	}
	if next.ConceptID != "alg-slope" {
		t.Errorf("follow-up concept = %q, want alg-slope", next.ConceptID)
	}

	stored := te.reload(t, id)
	c := stored.Concepts[0]
	if !near(c.Mastery, 0.65) {
		t.Errorf("mastery = %v, want 0.65", c.Mastery)
	}
	if c.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", c.Attempts)
	}
	if stored.Stats.XP != 10 {
		t.Errorf("stats xp = %d, want 10", stored.Stats.XP)
	}

	me := te.events.mastery[len(te.events.mastery)-1]
	if !near(me.Before, 0.5) || !near(me.After, 0.65) || me.Reason != "correct_answer" {
		t.Errorf("mastery event = %+v", me)
	}
}

func TestMasteredAfterTwoCorrectFromNeutralPrior(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	for i := 0; i < 2; i++ {
		q := issuedQuestion(t, res)
		res, err = te.eng.SubmitAnswer(ctx, id, answerFor(t, q))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	// 0.5 -> 0.65 -> 0.755 crosses the 0.7 bar on the second answer.
	ma := res.Find(ActionConceptMastered)
	if ma == nil {
		t.Fatalf("no mastered action, got %v", actionKinds(res))
	}
	if ma.ConceptID != "alg-slope" || !near(ma.Mastery, 0.755) {
		t.Errorf("mastered action = %+v", ma)
	}
	total := 0
	for _, a := range res.Actions {
		if a.Kind == ActionXPAwarded {
			total += a.XP
		}
	}
	if total != 30 {
		t.Errorf("xp on mastering answer = %d, want 30", total)
	}
	adv := res.Find(ActionConceptAdvanced)
	if adv == nil || adv.ConceptID != "alg-graphing" {
		t.Errorf("advance action = %+v, want alg-graphing", adv)
	}

	stored := te.reload(t, id)
	if got := stored.Concepts[0].Status; got != session.ConceptMastered {
		t.Errorf("status = %q, want mastered", got)
	}
	if stored.Active != nil {
		t.Error("active question survived mastery")
	}
	if stored.Current != 1 {
		t.Errorf("current = %d, want 1", stored.Current)
	}
	if stored.Stats.XP != 40 {
		t.Errorf("total xp = %d, want 40", stored.Stats.XP)
	}
}

func TestIncorrectRetryThenReteach(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	first := issuedQuestion(t, res)

	wantMastery := []float64{0.35, 0.245, 0.1715}
	for i := 0; i < 3; i++ {
		res, err = te.eng.SubmitAnswer(ctx, id, wrongAnswer)
		if err != nil {
			t.Fatalf("submit wrong %d: %v", i, err)
		}
		fb := res.Find(ActionFeedback)
		if fb == nil || fb.Correct {
			t.Fatalf("attempt %d feedback = %+v", i, fb)
		}
		c := te.reload(t, id).Concepts[0]
		if !near(c.Mastery, wantMastery[i]) {
			t.Errorf("attempt %d mastery = %v, want %v", i, c.Mastery, wantMastery[i])
		}

		if i < 2 {
			retry := res.Find(ActionRetry)
			if retry == nil || retry.AttemptsRemaining != 2-i {
				t.Fatalf("attempt %d retry = %+v", i, retry)
			}
		}
	}

	rt := res.Find(ActionReteach)
	if rt == nil || rt.ConceptID != "alg-slope" {
		t.Fatalf("no reteach after exhausted attempts, got %v", actionKinds(res))
	}
	stored := te.reload(t, id)
	if stored.Active != nil {
		t.Error("active question survived exhausted attempts")
	}
	if got := stored.Concepts[0].Status; got != session.ConceptInProgress {
		t.Errorf("status = %q, want in_progress", got)
	}
	if len(stored.RecentMisses) != 3 {
		t.Fatalf("recent misses = %d, want 3", len(stored.RecentMisses))
	}
	if stored.RecentMisses[0].Misconception == "" {
		t.Error("miss lost its misconception tag")
	}

	// The next step reteaches the same concept with a fresh question.
	res, err = te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("reteach step: %v", err)
	}
	ta := res.Find(ActionTeaching)
	if ta == nil || ta.ConceptID != "alg-slope" {
		t.Fatalf("reteach went to %+v, want alg-slope", ta)
	}
	q := issuedQuestion(t, res)
	if q.ID == first.ID {
		t.Error("reteach reused the exhausted question")
	}
	if got := res.Find(ActionQuestionIssued).AttemptsRemaining; got != session.MaxAttempts {
		t.Errorf("reteach attempts = %d, want %d", got, session.MaxAttempts)
	}
}

func TestHintsAreFreeAndRepeatable(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	q := issuedQuestion(t, res)

	for want := 1; want <= 2; want++ {
		res, err = te.eng.RequestHint(ctx, id)
		if err != nil {
			t.Fatalf("hint %d: %v", want, err)
		}
		ha := res.Find(ActionHint)
		if ha == nil || ha.Hint == "" || ha.HintsGiven != want {
			t.Errorf("hint action = %+v, want count %d", ha, want)
		}
		if got := te.reload(t, id).Active.AttemptsRemaining; got != session.MaxAttempts {
			t.Errorf("hint consumed an attempt: %d", got)
		}
	}

	stored := te.reload(t, id)
	if stored.Stats.HintsUsed != 2 {
		t.Errorf("hints used = %d, want 2", stored.Stats.HintsUsed)
	}
	if len(te.events.hints) != 2 {
		t.Errorf("hint events = %d, want 2", len(te.events.hints))
	}

	// The question is still answerable after hints.
	if _, err := te.eng.SubmitAnswer(ctx, id, answerFor(t, q)); err != nil {
		t.Fatalf("submit after hints: %v", err)
	}
}

func TestHintOutsideTeachingRejected(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	if _, err := te.eng.Start(context.Background(), s.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := te.eng.RequestHint(context.Background(), s.ID)
	var pe *PhaseError
	if !errors.As(err, &pe) {
		t.Fatalf("diagnostic hint error = %v, want PhaseError", err)
	}
	if pe.Phase != session.PhaseDiagnostic {
		t.Errorf("error phase = %q", pe.Phase)
	}
}

func TestHintNeedsOutstandingQuestion(t *testing.T) {
	te, id := neutralStart(t)
	// Teaching phase, but no question served yet.
	if _, err := te.eng.RequestHint(context.Background(), id); !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("hint error = %v, want ErrNoActiveQuestion", err)
	}
}

func TestSkippedConceptNeverReturns(t *testing.T) {
	te := newTestEngine(t, Config{})
	id := startTeaching(t, te, passAll)
	ctx := context.Background()

	order := []string{"alg-variables", "alg-one-step", "alg-two-step", "alg-slope", "alg-graphing"}
	for i, want := range order {
		res, err := te.eng.SkipConcept(ctx, id)
		if err != nil {
			t.Fatalf("skip %d: %v", i, err)
		}
		sk := res.Find(ActionConceptSkipped)
		if sk == nil || sk.ConceptID != want {
			t.Fatalf("skip %d hit %+v, want %q", i, sk, want)
		}
	}

	stored := te.reload(t, id)
	if stored.Phase != session.PhaseWrapUp {
		t.Errorf("phase = %q, want wrap_up after skipping everything", stored.Phase)
	}
	for _, c := range stored.Concepts {
		if c.Status != session.ConceptSkipped {
			t.Errorf("concept %s status = %q, want skipped", c.ID, c.Status)
		}
	}
	// Nothing was ever taught.
	for _, call := range te.gen.Calls {
		if call == "teaching" {
			t.Error("skipped concept was taught anyway")
		}
	}
	for _, me := range te.events.mastery {
		if me.Reason != "skipped" {
			t.Errorf("mastery event reason = %q, want skipped", me.Reason)
		}
	}
}

func TestGenerationFailureLeavesStoredSessionUntouched(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	genErr := &contentgen.GenerationError{Op: "teaching", Retryable: true, Err: errors.New("rate limited")}

	before := te.sessions.docs[id]
	te.gen.Err = genErr
	_, err := te.eng.Next(ctx, id)
	var ge *contentgen.GenerationError
	if !errors.As(err, &ge) || !ge.Retryable {
		t.Fatalf("next error = %v, want retryable GenerationError", err)
	}
	if te.sessions.docs[id] != before {
		t.Fatal("failed generation mutated the stored session")
	}

	// The same operation succeeds once the generator recovers.
	te.gen.Err = nil
	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	q := issuedQuestion(t, res)

	// A feedback failure mid-answer must not consume the attempt.
	before = te.sessions.docs[id]
	te.gen.Err = genErr
	if _, err := te.eng.SubmitAnswer(ctx, id, answerFor(t, q)); !errors.As(err, &ge) {
		t.Fatalf("submit error = %v, want GenerationError", err)
	}
	if te.sessions.docs[id] != before {
		t.Fatal("failed submit mutated the stored session")
	}
	if got := te.reload(t, id).Active.AttemptsRemaining; got != session.MaxAttempts {
		t.Errorf("attempts after failed submit = %d, want %d", got, session.MaxAttempts)
	}

	te.gen.Err = nil
	if _, err := te.eng.SubmitAnswer(ctx, id, answerFor(t, q)); err != nil {
		t.Fatalf("submit after recovery: %v", err)
	}
}

func TestPersistenceFailureNotCommitted(t *testing.T) {
	te, id := neutralStart(t)
	ctx := context.Background()

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	q := issuedQuestion(t, res)

	diskErr := errors.New("disk full")
	before := te.sessions.docs[id]
	te.sessions.saveErr = diskErr

	_, err = te.eng.SubmitAnswer(ctx, id, answerFor(t, q))
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("submit error = %v, want PersistenceError", err)
	}
	if !errors.Is(err, diskErr) {
		t.Errorf("cause not preserved: %v", err)
	}
	if te.sessions.docs[id] != before {
		t.Fatal("failed save left a partial write")
	}

	// The attempt was not consumed; the answer can be resubmitted.
	te.sessions.saveErr = nil
	res, err = te.eng.SubmitAnswer(ctx, id, answerFor(t, q))
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if fb := res.Find(ActionFeedback); fb == nil || !fb.Correct {
		t.Errorf("resubmit feedback = %+v", fb)
	}
}

func TestWrapUpSummaryAndCompletion(t *testing.T) {
	te := newTestEngine(t, Config{})
	id := startTeaching(t, te, passAll)
	ctx := context.Background()

	// Skip the first concept, master the remaining four.
	if _, err := te.eng.SkipConcept(ctx, id); err != nil {
		t.Fatalf("skip: %v", err)
	}
	var last *Result
	for i := 0; i < 4; i++ {
		res, err := te.eng.Next(ctx, id)
		if err != nil {
			t.Fatalf("teach %d: %v", i, err)
		}
		q := issuedQuestion(t, res)
		last, err = te.eng.SubmitAnswer(ctx, id, answerFor(t, q))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if last.Find(ActionConceptMastered) == nil {
			t.Fatalf("concept %d not mastered at full score", i)
		}
	}
	if pc := last.Find(ActionPhaseChanged); pc == nil || pc.To != session.PhaseWrapUp {
		t.Fatalf("final answer did not reach wrap_up: %v", actionKinds(last))
	}

	res, err := te.eng.Next(ctx, id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if res.Phase != session.PhaseCompleted {
		t.Errorf("phase = %q, want completed", res.Phase)
	}
	sa := res.Find(ActionSummary)
	if sa == nil || sa.Summary.Text == "" {
		t.Fatalf("summary action = %+v", sa)
	}
	if len(sa.Summary.Review) != 5 {
		t.Fatalf("review items = %d, want 5", len(sa.Summary.Review))
	}
	// The skipped concept comes back soonest; strong masteries wait a week.
	if sa.Summary.Review[0].ConceptID != "alg-variables" || sa.Summary.Review[0].Days != 1 {
		t.Errorf("first review = %+v, want alg-variables in 1 day", sa.Summary.Review[0])
	}
	for _, item := range sa.Summary.Review[1:] {
		if item.Days != 7 {
			t.Errorf("review %s days = %d, want 7", item.ConceptID, item.Days)
		}
	}

	stored := te.reload(t, id)
	if stored.Summary == nil {
		t.Fatal("summary not persisted")
	}
	if stored.Phase != session.PhaseCompleted {
		t.Errorf("stored phase = %q, want completed", stored.Phase)
	}
}

func TestCompletedSessionRejectsOperations(t *testing.T) {
	te := newTestEngine(t, Config{})
	id := startTeaching(t, te, passAll)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := te.eng.SkipConcept(ctx, id); err != nil {
			t.Fatalf("skip %d: %v", i, err)
		}
	}
	if _, err := te.eng.Next(ctx, id); err != nil {
		t.Fatalf("finish: %v", err)
	}

	before := te.sessions.docs[id]
	var pe *PhaseError
	if _, err := te.eng.Next(ctx, id); !errors.As(err, &pe) {
		t.Errorf("next error = %v, want PhaseError", err)
	}
	if _, err := te.eng.SubmitAnswer(ctx, id, "4"); !errors.As(err, &pe) {
		t.Errorf("submit error = %v, want PhaseError", err)
	}
	if _, err := te.eng.RequestHint(ctx, id); !errors.As(err, &pe) {
		t.Errorf("hint error = %v, want PhaseError", err)
	}
	if _, err := te.eng.SkipConcept(ctx, id); !errors.As(err, &pe) {
		t.Errorf("skip error = %v, want PhaseError", err)
	}
	if te.sessions.docs[id] != before {
		t.Error("rejected operations mutated the completed session")
	}
}

func TestFullSessionFlow(t *testing.T) {
	te := newTestEngine(t, Config{})
	s := te.create(t)
	ctx := context.Background()

	// Three of six diagnostic answers correct: variables splits 1/2,
	// one-step and slope pass, two-step and graphing fail.
	pass := func(conceptID string, n int) bool {
		switch conceptID {
		case "alg-one-step", "alg-slope":
			return true
		case "alg-variables":
			return n == 0
		default:
			return false
		}
	}
	runDiagnostic(t, te, s.ID, pass)

	var planOrder []string
	for i := 0; ; i++ {
		if i > 200 {
			t.Fatal("session did not complete")
		}
		res, err := te.eng.Next(ctx, s.ID)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if pb := res.Find(ActionPlanBuilt); pb != nil {
			for _, entry := range pb.Plan.Entries {
				planOrder = append(planOrder, entry.ConceptID)
			}
		}
		if res.Phase == session.PhaseCompleted {
			break
		}
		if qa := res.Find(ActionQuestionIssued); qa != nil {
			if _, err := te.eng.SubmitAnswer(ctx, s.ID, answerFor(t, qa.Question)); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
	}

	want := []string{"alg-two-step", "alg-graphing", "alg-variables", "alg-one-step", "alg-slope"}
	if len(planOrder) != len(want) {
		t.Fatalf("plan order = %v, want %v", planOrder, want)
	}
	for i := range want {
		if planOrder[i] != want[i] {
			t.Errorf("plan[%d] = %q, want %q", i, planOrder[i], want[i])
		}
	}

	stored := te.reload(t, s.ID)
	if stored.Phase != session.PhaseCompleted {
		t.Fatalf("phase = %q, want completed", stored.Phase)
	}
	for _, c := range stored.Concepts {
		if c.Status != session.ConceptMastered {
			t.Errorf("concept %s = %q, want mastered", c.ID, c.Status)
		}
		if c.Mastery < 0 || c.Mastery > 1 {
			t.Errorf("concept %s mastery %v out of range", c.ID, c.Mastery)
		}
	}

	// The phase trail moves strictly forward through every phase.
	var trail []string
	for _, ev := range te.events.sessions {
		if ev.Action == "phase_advanced" || ev.Action == "completed" {
			trail = append(trail, ev.FromPhase+">"+ev.ToPhase)
		}
	}
	wantTrail := []string{
		"not_started>diagnostic",
		"diagnostic>planning",
		"planning>teaching",
		"teaching>wrap_up",
		"wrap_up>completed",
	}
	if len(trail) != len(wantTrail) {
		t.Fatalf("phase trail = %v, want %v", trail, wantTrail)
	}
	for i := range wantTrail {
		if trail[i] != wantTrail[i] {
			t.Errorf("trail[%d] = %q, want %q", i, trail[i], wantTrail[i])
		}
	}

	// XP in the session matches what the answer events granted, and every
	// mastery movement stayed in range.
	total := 0
	for _, a := range te.events.answers {
		total += a.XPAwarded
	}
	if stored.Stats.XP != total {
		t.Errorf("stats xp = %d, events total %d", stored.Stats.XP, total)
	}
	for _, me := range te.events.mastery {
		if me.After < 0 || me.After > 1 {
			t.Errorf("mastery event out of range: %+v", me)
		}
	}
}
