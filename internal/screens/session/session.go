package session

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tutoriz/internal/config"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/router"
	"github.com/abhisek/tutoriz/internal/screen"
	"github.com/abhisek/tutoriz/internal/screens/summary"
	sess "github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/tutor"
	"github.com/abhisek/tutoriz/internal/ui/components"
	"github.com/abhisek/tutoriz/internal/ui/layout"
)

// stage is the screen's display state. The engine owns the session phase;
// the stage only tracks what is on screen between engine calls.
type stage int

const (
	stageChoose stage = iota
	stageLoading
	stagePlan
	stageTeaching
	stageQuestion
	stageFeedback
	stageError
)

// nextMove is what a keypress on an interstitial stage does.
type nextMove int

const (
	moveNone nextMove = iota
	moveAdvance
	moveShowQuestion
)

// feedback aggregates the effects of one graded answer or skip for a
// single feedback card.
type feedback struct {
	correct bool
	text    string
	detail  string

	xp           int
	mastered     bool
	masteredName string
	mastery      float64

	retry        bool
	attemptsLeft int
	reteach      bool
	reteachName  string

	skipped      bool
	skippedName  string
	advancedName string
	wrapUp       bool

	// Diagnostic progress, zero outside the diagnostic phase.
	diagAsked int
	diagMax   int
}

// resolved reports whether the question is settled and its answer can be
// revealed. A retry keeps the answer hidden.
func (f *feedback) resolved() bool {
	return f.correct || f.reteach
}

// SessionScreen runs one tutoring session end to end: chapter choice,
// diagnostic quiz, study plan, the teaching loop, and the hand-off to the
// summary. Every transition goes through the engine; the screen renders
// the actions that come back and never grades anything itself.
type SessionScreen struct {
	engine *tutor.Engine
	cfg    *config.Config

	stage       stage
	quitConfirm bool
	next        nextMove

	chooser components.Menu

	sessionID string
	resume    bool
	phase     sess.Phase

	loadingNote string
	retryCmd    tea.Cmd
	errMsg      string

	diagAsked int
	diagMax   int

	teaching    *teachingCard
	conceptName string

	planEntries []plan.Entry
	planMins    int
	narrative   string

	active       *question.Question
	attemptsLeft int
	mcActive     bool
	mc           components.MultiChoice
	input        components.TextInput

	hint        string
	hintNum     int
	hintPending bool
	hintNote    string

	fb *feedback

	// Running tallies shown in the question header.
	xpEarned int
	answered int
	correct  int

	mdCache markdownCache
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates the screen in the chapter chooser, ready to start a fresh
// session.
func New(engine *tutor.Engine, cfg *config.Config) *SessionScreen {
	s := &SessionScreen{
		engine: engine,
		cfg:    cfg,
		stage:  stageChoose,
	}
	s.chooser = buildChooser()
	return s
}

// Resume reopens a stored session. The engine re-presents whatever was
// outstanding, so a half-finished question comes back exactly as it was.
func Resume(engine *tutor.Engine, cfg *config.Config, sessionID string) *SessionScreen {
	return &SessionScreen{
		engine:      engine,
		cfg:         cfg,
		stage:       stageLoading,
		loadingNote: "Picking up where you left off...",
		sessionID:   sessionID,
		resume:      true,
	}
}

// buildChooser lists every chapter in the curriculum as "Subject: Chapter".
func buildChooser() components.Menu {
	var items []components.MenuItem
	for _, sub := range curriculum.Subjects() {
		sub := sub
		for _, ch := range sub.Chapters {
			ch := ch
			items = append(items, components.MenuItem{
				Label: fmt.Sprintf("%s: %s", sub.Name, ch.Name),
				Action: func() tea.Cmd {
					return func() tea.Msg {
						return chapterChosenMsg{SubjectID: sub.ID, ChapterID: ch.ID}
					}
				},
			})
		}
	}
	return components.NewMenu(items)
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.resume {
		cmd := s.resumeCmd()
		s.retryCmd = cmd
		return cmd
	}
	return nil
}

func (s *SessionScreen) Title() string {
	return "Session"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.stage {
	case stageChoose:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Choose"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case stageQuestion:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
		if s.phase == sess.PhaseTeaching {
			hints = append(hints,
				layout.KeyHint{Key: "Tab", Description: "Hint"},
				layout.KeyHint{Key: "Ctrl+S", Description: "Skip concept"},
			)
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
	case stagePlan, stageTeaching, stageFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Esc", Description: "Leave"},
		}
	case stageError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "any key", Description: "Back"},
		}
	}
	return nil
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chapterChosenMsg:
		s.stage = stageLoading
		s.loadingNote = "Setting up your session..."
		cmd := s.createCmd(msg.SubjectID, msg.ChapterID)
		s.retryCmd = cmd
		return s, cmd

	case sessionReadyMsg:
		if msg.ID != "" {
			s.sessionID = msg.ID
			// A later retry only needs to start the existing session.
			s.retryCmd = s.startCmd()
		}
		return s.handleResult(msg.Res, msg.Err)

	case resultMsg:
		return s.handleResult(msg.Res, msg.Err)

	case hintMsg:
		return s.handleHint(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other component messages.
	if s.stage == stageQuestion && !s.mcActive {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.stage == stageError {
		if (key == "r" || key == "R") && s.retryCmd != nil {
			s.errMsg = ""
			s.stage = stageLoading
			return s, s.retryCmd
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	switch s.stage {
	case stageChoose:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.chooser, cmd = s.chooser.Update(msg)
		return s, cmd

	case stageLoading:
		if key == "esc" {
			s.quitConfirm = true
		}
		return s, nil

	case stagePlan, stageTeaching, stageFeedback:
		if key == "esc" {
			s.quitConfirm = true
			return s, nil
		}
		return s.continueFrom()

	case stageQuestion:
		return s.handleQuestionKey(msg, key)
	}
	return s, nil
}

func (s *SessionScreen) handleQuestionKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "enter":
		return s.submit()
	case "tab":
		if s.phase == sess.PhaseTeaching && !s.hintPending {
			return s.requestHint()
		}
		return s, nil
	case "ctrl+s":
		if s.phase == sess.PhaseTeaching {
			return s.skipConcept()
		}
		return s, nil
	}

	if s.mcActive {
		if n := numberKey(key); n >= 0 && s.mc.Choose(n) {
			return s.submit()
		}
		if s.active != nil && s.active.Kind == question.KindTrueFalse {
			switch key {
			case "t", "T":
				s.mc.Choose(0)
				return s.submit()
			case "f", "F":
				s.mc.Choose(1)
				return s.submit()
			}
		}
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// continueFrom leaves an interstitial stage: either the issued question is
// already in hand, or the engine is asked for the next step.
func (s *SessionScreen) continueFrom() (screen.Screen, tea.Cmd) {
	switch s.next {
	case moveShowQuestion:
		s.next = moveNone
		s.stage = stageQuestion
		return s, s.inputFocusCmd()
	case moveAdvance:
		s.next = moveNone
		return s, s.advance()
	}
	return s, nil
}

// submit sends the current answer to the engine for grading.
func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	if s.active == nil {
		return s, nil
	}
	var submitted string
	if s.mcActive {
		submitted = s.mc.Value()
	} else {
		submitted = strings.TrimSpace(s.input.Value())
		if submitted == "" {
			return s, nil
		}
	}

	s.stage = stageLoading
	s.loadingNote = "Checking your answer..."
	eng, id := s.engine, s.sessionID
	cmd := func() tea.Msg {
		res, err := eng.SubmitAnswer(context.Background(), id, submitted)
		return resultMsg{Res: res, Err: err}
	}
	s.retryCmd = cmd
	return s, cmd
}

func (s *SessionScreen) requestHint() (screen.Screen, tea.Cmd) {
	s.hintPending = true
	s.hintNote = ""
	eng, id := s.engine, s.sessionID
	return s, func() tea.Msg {
		res, err := eng.RequestHint(context.Background(), id)
		return hintMsg{Res: res, Err: err}
	}
}

func (s *SessionScreen) skipConcept() (screen.Screen, tea.Cmd) {
	s.stage = stageLoading
	s.loadingNote = "Skipping ahead..."
	eng, id := s.engine, s.sessionID
	cmd := func() tea.Msg {
		res, err := eng.SkipConcept(context.Background(), id)
		return resultMsg{Res: res, Err: err}
	}
	s.retryCmd = cmd
	return s, cmd
}

// advance asks the engine for the next step and shows a loading note
// matched to what the engine is about to do.
func (s *SessionScreen) advance() tea.Cmd {
	s.stage = stageLoading
	s.loadingNote = loadingNoteFor(s.phase)
	eng, id := s.engine, s.sessionID
	cmd := func() tea.Msg {
		res, err := eng.Next(context.Background(), id)
		return resultMsg{Res: res, Err: err}
	}
	s.retryCmd = cmd
	return cmd
}

func loadingNoteFor(phase sess.Phase) string {
	switch phase {
	case sess.PhasePlanning:
		return "Building your study plan..."
	case sess.PhaseTeaching:
		return "Preparing the next concept..."
	case sess.PhaseWrapUp:
		return "Writing your wrap-up..."
	default:
		return "Writing the next question..."
	}
}

func (s *SessionScreen) handleResult(res *tutor.Result, err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		s.errMsg = err.Error()
		s.stage = stageError
		return s, nil
	}
	if res == nil {
		return s, nil
	}
	return s, s.apply(res)
}

func (s *SessionScreen) handleHint(msg hintMsg) (screen.Screen, tea.Cmd) {
	s.hintPending = false
	if msg.Err != nil {
		s.hintNote = "No hint right now. Give it your best try."
		return s, nil
	}
	if a := msg.Res.Find(tutor.ActionHint); a != nil {
		s.hint = a.Hint
		s.hintNum = a.HintsGiven
	}
	return s, nil
}

// apply digests one engine result into screen state and decides the next
// stage. Results with nothing to show chain straight into another engine
// call; a completed session hands the stack position to the summary.
func (s *SessionScreen) apply(res *tutor.Result) tea.Cmd {
	s.phase = res.Phase
	s.teaching = nil

	fb := &feedback{}
	haveFb := false
	questionIssued := false
	planBuilt := false

	for _, a := range res.Actions {
		switch a.Kind {
		case tutor.ActionQuestionIssued:
			s.setQuestion(a)
			questionIssued = true

		case tutor.ActionTeaching:
			s.teaching = &teachingCard{title: a.Teaching.Title, markdown: a.Teaching.Markdown}
			s.conceptName = a.ConceptName

		case tutor.ActionPlanBuilt:
			s.planEntries = a.Plan.Entries
			s.planMins = a.Plan.TotalMins
			s.narrative = a.Narrative
			planBuilt = true

		case tutor.ActionFeedback:
			haveFb = true
			fb.correct = a.Correct
			fb.text = a.Feedback
			fb.detail = a.Detail
			fb.diagAsked = a.Asked
			fb.diagMax = a.Max
			s.answered++
			if a.Correct {
				s.correct++
			}

		case tutor.ActionXPAwarded:
			fb.xp += a.XP
			s.xpEarned += a.XP

		case tutor.ActionConceptMastered:
			fb.mastered = true
			fb.masteredName = a.ConceptName
			fb.mastery = a.Mastery

		case tutor.ActionRetry:
			fb.retry = true
			fb.attemptsLeft = a.AttemptsRemaining
			s.attemptsLeft = a.AttemptsRemaining
			s.resetInput()

		case tutor.ActionReteach:
			fb.reteach = true
			fb.reteachName = a.ConceptName

		case tutor.ActionConceptSkipped:
			haveFb = true
			fb.skipped = true
			fb.skippedName = a.ConceptName

		case tutor.ActionConceptAdvanced:
			fb.advancedName = a.ConceptName

		case tutor.ActionPhaseChanged:
			if a.To == sess.PhaseWrapUp {
				fb.wrapUp = true
			}
		}
	}

	if s.phase == sess.PhaseCompleted {
		eng, id := s.engine, s.sessionID
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(eng, id)}
		}
	}

	switch {
	case haveFb:
		s.fb = fb
		s.stage = stageFeedback
		if fb.retry || questionIssued {
			s.next = moveShowQuestion
		} else {
			s.next = moveAdvance
		}
		return nil

	case s.teaching != nil:
		s.stage = stageTeaching
		s.next = moveShowQuestion
		return nil

	case planBuilt:
		s.stage = stagePlan
		s.next = moveAdvance
		return nil

	case questionIssued:
		s.stage = stageQuestion
		return s.inputFocusCmd()

	default:
		// A bare phase change, into planning or wrap_up. Keep moving.
		return s.advance()
	}
}

// setQuestion installs an issued question and resets per-question state.
func (s *SessionScreen) setQuestion(a tutor.Action) {
	s.active = a.Question
	s.attemptsLeft = a.AttemptsRemaining
	if a.Asked > 0 {
		s.diagAsked = a.Asked
		s.diagMax = a.Max
	}
	s.hint = ""
	s.hintNum = 0
	s.hintPending = false
	s.hintNote = ""
	s.resetInput()
}

// resetInput rebuilds the answer widget for the active question. Retries
// get a clean widget so nothing about the previous attempt is revealed.
func (s *SessionScreen) resetInput() {
	q := s.active
	if q == nil {
		return
	}
	switch q.Kind {
	case question.KindMultipleChoice:
		s.mcActive = true
		s.mc = components.NewMultiChoice(q)

	case question.KindTrueFalse:
		s.mcActive = true
		s.mc = components.MultiChoice{
			Prompt:    q.Prompt,
			Options:   boolOptions(),
			CorrectID: fmt.Sprintf("%t", q.BoolAnswer),
		}

	default:
		s.mcActive = false
		numeric := q.Kind == question.KindNumeric || q.Kind == question.KindEquation
		s.input = components.NewTextInput(placeholderFor(q.Kind), numeric, charLimitFor(q.Kind))
	}
}

func (s *SessionScreen) inputFocusCmd() tea.Cmd {
	if s.mcActive {
		return nil
	}
	return s.input.Init()
}

// createCmd creates and starts a fresh session for the chosen chapter.
func (s *SessionScreen) createCmd(subjectID, chapterID string) tea.Cmd {
	eng, cfg := s.engine, s.cfg
	return func() tea.Msg {
		ctx := context.Background()
		studentID := cfg.StudentName
		if studentID == "" {
			studentID = "student"
		}
		profile := sess.Profile{Name: cfg.StudentName, GradeLevel: cfg.GradeLevel}

		created, err := eng.CreateSession(ctx, studentID, subjectID, chapterID, profile)
		if err != nil {
			return sessionReadyMsg{Err: err}
		}
		res, err := eng.Start(ctx, created.ID)
		return sessionReadyMsg{ID: created.ID, Res: res, Err: err}
	}
}

// startCmd starts the already-created session. Used to retry when session
// creation landed but the first question did not.
func (s *SessionScreen) startCmd() tea.Cmd {
	eng, id := s.engine, s.sessionID
	return func() tea.Msg {
		res, err := eng.Start(context.Background(), id)
		return sessionReadyMsg{ID: id, Res: res, Err: err}
	}
}

// resumeCmd reopens a stored session wherever it stands.
func (s *SessionScreen) resumeCmd() tea.Cmd {
	eng, id := s.engine, s.sessionID
	return func() tea.Msg {
		ctx := context.Background()
		stored, err := eng.GetSession(ctx, id)
		if err != nil {
			return sessionReadyMsg{Err: err}
		}
		switch stored.Phase {
		case sess.PhaseNotStarted:
			res, err := eng.Start(ctx, id)
			return sessionReadyMsg{ID: id, Res: res, Err: err}
		case sess.PhaseCompleted:
			return sessionReadyMsg{ID: id, Res: &tutor.Result{Phase: sess.PhaseCompleted}}
		default:
			res, err := eng.Next(ctx, id)
			return sessionReadyMsg{ID: id, Res: res, Err: err}
		}
	}
}

// teachingCard is the lesson content shown before a practice question.
type teachingCard struct {
	title    string
	markdown string
}

func boolOptions() []question.Option {
	return []question.Option{
		{ID: "true", Text: "True"},
		{ID: "false", Text: "False"},
	}
}

func placeholderFor(k question.Kind) string {
	switch k {
	case question.KindNumeric, question.KindEquation:
		return "e.g. 3.5 or 3/4"
	case question.KindFillBlank:
		return "Fill in the blank"
	case question.KindMatchPairs:
		return "left = right, left = right"
	default:
		return "Type your answer..."
	}
}

func charLimitFor(k question.Kind) int {
	switch k {
	case question.KindNumeric, question.KindEquation:
		return 24
	case question.KindFillBlank:
		return 60
	case question.KindMatchPairs:
		return 200
	default:
		return 160
	}
}

// numberKey maps "1".."9" to an option index, or -1.
func numberKey(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1')
	}
	return -1
}
