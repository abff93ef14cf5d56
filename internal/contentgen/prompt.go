package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
)

const questionSystemPrompt = `You are a tutor writing practice questions for a one-on-one study session.

Rules:
- Generate a single question for the given concept, kind, and difficulty.
- Use plain ASCII text. No LaTeX, no Unicode math symbols. Use / for fractions and * for multiplication.
- The question must be clear, self-contained, and answerable from the concept alone.
- The expected answer must be correct and complete for the requested kind.
- For multiple choice, provide exactly 4 options where exactly one is correct. Distractors should reflect common mistakes, not random values.
- For short answer, pick keywords that any correct explanation would naturally contain.
- The explanation should show the solution step by step.
- Do not repeat any question from the "already asked" list.`

const teachingSystemPrompt = `You are a patient, encouraging tutor. A student is about to practice a concept and needs a short, clear lesson first.`

const feedbackSystemPrompt = `You are a supportive tutor reacting to a student's answer. Be specific about what the student did, never condescending.`

const hintSystemPrompt = `You are a tutor giving a hint. Point at the method or the first step. Never state or spell out the answer, and never give a hint that makes the answer a single substitution away.`

const narrativeSystemPrompt = `You are a tutor presenting a study plan to a student who just finished a diagnostic quiz.`

const summarySystemPrompt = `You are a tutor wrapping up a study session. Summarize honestly: celebrate real progress and name what still needs work.`

// buildQuestionMessage constructs the user message for question generation.
func buildQuestionMessage(req QuestionRequest, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Concept: %s\n", req.ConceptName)
	fmt.Fprintf(&b, "Subject: %s / %s\n", req.Context.Subject, req.Context.Chapter)
	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(req.Keywords, ", "))
	fmt.Fprintf(&b, "Question kind: %s\n", kindLabel(req.Kind))
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Purpose: %s\n", req.Purpose)

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildExcludeList(req.Exclude, cfg.MaxExclude))

	b.WriteString("\nRecent misses by this student:\n")
	b.WriteString(buildMissList(req.Context.RecentMisses, cfg.MaxMisses))

	writeProfile(&b, req.Context)

	return b.String()
}

// buildTeachingMessage constructs the user message for micro-lessons.
func buildTeachingMessage(req TeachingRequest, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Concept: %s\n", req.ConceptName)
	fmt.Fprintf(&b, "Subject: %s / %s\n", req.Context.Subject, req.Context.Chapter)
	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(req.Keywords, ", "))
	fmt.Fprintf(&b, "Current mastery: %.0f%%\n", req.Mastery*100)

	b.WriteString("\nRecent misses by this student:\n")
	b.WriteString(buildMissList(req.Context.RecentMisses, cfg.MaxMisses))

	writeProfile(&b, req.Context)

	b.WriteString(`
Instructions:
Write a micro-lesson that:
1. Explains the concept in 3-5 sentences of simple language, addressing the misses above when relevant.
2. Shows one complete worked example with numbered steps.
3. Ends with a single sentence leading into a practice question.
Use markdown with at most one heading. Plain ASCII for all math.`)

	return b.String()
}

// buildFeedbackMessage constructs the user message for answer feedback.
func buildFeedbackMessage(req FeedbackRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", req.Question.Prompt)
	fmt.Fprintf(&b, "Student answered: %s\n", req.Submitted)
	fmt.Fprintf(&b, "Graded: %s\n", gradeWord(req.Correct))
	if req.Detail != "" {
		fmt.Fprintf(&b, "Grading detail: %s\n", req.Detail)
	}
	if req.Question.Explanation != "" {
		fmt.Fprintf(&b, "Reference solution: %s\n", req.Question.Explanation)
	}
	fmt.Fprintf(&b, "Attempts remaining: %d\n", req.AttemptsLeft)

	if req.Correct {
		b.WriteString(`
Instructions:
Confirm what the student did right in 1-2 sentences. Set misconception to the empty string.`)
	} else if req.AttemptsLeft > 0 {
		b.WriteString(`
Instructions:
In 2-3 sentences, point out where the reasoning likely went wrong and nudge toward the right approach WITHOUT revealing the answer; the student will retry. Name the likely misunderstanding in the misconception tag.`)
	} else {
		b.WriteString(`
Instructions:
The student is out of attempts. In 2-3 sentences, walk through the correct reasoning and state the answer plainly. Name the likely misunderstanding in the misconception tag.`)
	}

	return b.String()
}

// buildHintMessage constructs the user message for hints.
func buildHintMessage(req HintRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", req.Question.Prompt)
	fmt.Fprintf(&b, "Kind: %s\n", kindLabel(req.Question.Kind))
	fmt.Fprintf(&b, "Hints already given: %d\n", req.HintsGiven)
	if req.HintsGiven > 0 {
		b.WriteString("\nThe student already saw a hint; make this one a bit more concrete, still without revealing the answer.\n")
	}

	return b.String()
}

// buildNarrativeMessage constructs the user message for plan narratives.
func buildNarrativeMessage(req PlanRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s / %s\n", req.Context.Subject, req.Context.Chapter)
	b.WriteString("\nStudy plan, in order:\n")
	for i, e := range req.Entries {
		fmt.Fprintf(&b, "%d. %s (priority %s, diagnostic score %.0f%%, ~%d min)\n",
			i+1, e.Name, e.Priority, e.Score*100, e.EstimatedMins)
	}

	writeProfile(&b, req.Context)

	return b.String()
}

// buildSummaryMessage constructs the user message for wrap-up summaries.
func buildSummaryMessage(req SummaryRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s / %s\n", req.Context.Subject, req.Context.Chapter)

	b.WriteString("\nConcept results:\n")
	for _, c := range req.Concepts {
		fmt.Fprintf(&b, "- %s: %s, mastery %.0f%%, %d attempts\n", c.Name, c.Status, c.Mastery*100, c.Attempts)
	}

	fmt.Fprintf(&b, "\nTotals: %d questions, %d correct, %d XP, best streak %d, %d hints used\n",
		req.Stats.QuestionsAttempted, req.Stats.QuestionsCorrect,
		req.Stats.XP, req.Stats.BestStreak, req.Stats.HintsUsed)

	b.WriteString("\nRecent misses:\n")
	b.WriteString(buildMissList(req.Context.RecentMisses, len(req.Context.RecentMisses)))

	return b.String()
}

// buildExcludeList formats already-asked prompts, respecting the max limit.
func buildExcludeList(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildMissList formats recent misses, respecting the max limit.
func buildMissList(misses []session.Miss, max int) string {
	if len(misses) == 0 {
		return "None"
	}
	if max > 0 && len(misses) > max {
		misses = misses[len(misses)-max:]
	}
	var b strings.Builder
	for _, m := range misses {
		fmt.Fprintf(&b, "- answered %q to %q", m.Submitted, m.Prompt)
		if m.Misconception != "" {
			fmt.Fprintf(&b, " (%s)", m.Misconception)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeProfile appends the student profile section when any of it is set.
func writeProfile(b *strings.Builder, sc SessionContext) {
	p := sc.Profile
	if p.Name == "" && p.GradeLevel == 0 && p.LearningStyle == "" && p.Pace == "" {
		return
	}
	b.WriteString("\nStudent profile:\n")
	if p.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", p.Name)
	}
	if p.GradeLevel != 0 {
		fmt.Fprintf(b, "Grade: %d\n", p.GradeLevel)
	}
	if p.LearningStyle != "" {
		fmt.Fprintf(b, "Learning style: %s\n", p.LearningStyle)
	}
	if p.Pace != "" {
		fmt.Fprintf(b, "Pace: %s\n", p.Pace)
	}
}

func gradeWord(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// kindLabel is a display form of a question kind for prompts.
func kindLabel(k question.Kind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}
