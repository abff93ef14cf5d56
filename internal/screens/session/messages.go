package session

import "github.com/abhisek/tutoriz/internal/tutor"

// chapterChosenMsg is sent when the student picks a chapter in the chooser.
type chapterChosenMsg struct {
	SubjectID string
	ChapterID string
}

// sessionReadyMsg is sent when the session has been created and started,
// or when a stored session has been reopened. ID is set as soon as the
// session exists, even if starting it failed.
type sessionReadyMsg struct {
	ID  string
	Res *tutor.Result
	Err error
}

// resultMsg carries the outcome of an engine step: an advance, a graded
// answer, or a skip.
type resultMsg struct {
	Res *tutor.Result
	Err error
}

// hintMsg carries a requested hint. Hint failures are shown inline and
// never interrupt the question.
type hintMsg struct {
	Res *tutor.Result
	Err error
}
