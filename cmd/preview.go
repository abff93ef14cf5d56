package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/llm"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for a concept (no database)",
	Long: `Generate and interactively answer questions for a specific concept.

This is a stateless developer tool — no database, no mastery tracking, no events.
Useful for evaluating question quality and trying out new curriculum entries.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("concept", "", "Concept ID or name (required)")
	previewCmd.Flags().String("kind", string(question.KindMultipleChoice), "Question kind (e.g. numeric, true_false)")
	previewCmd.Flags().String("difficulty", "medium", "Difficulty: easy, medium, or hard")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	previewCmd.Flags().Bool("lesson", false, "Show the micro-lesson before the questions")
	previewCmd.Flags().Bool("offline", false, "Use the deterministic offline generator instead of an LLM")
	_ = previewCmd.MarkFlagRequired("concept")
}

func runPreview(cmd *cobra.Command, args []string) error {
	conceptVal, _ := cmd.Flags().GetString("concept")
	kindVal, _ := cmd.Flags().GetString("kind")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	lesson, _ := cmd.Flags().GetBool("lesson")
	offline, _ := cmd.Flags().GetBool("offline")

	def, sub, ch, err := resolveConcept(conceptVal)
	if err != nil {
		return err
	}

	kind := question.Kind(kindVal)
	if !kind.Valid() {
		return fmt.Errorf("invalid kind %q: must be one of %s", kindVal, kindList())
	}
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("invalid difficulty %q: must be easy, medium, or hard", difficulty)
	}

	// Build a generator. Offline mode skips the provider entirely; the
	// live path creates a provider with no EventRepo, so nothing is logged.
	ctx := context.Background()
	var gen contentgen.Generator
	if offline {
		gen = contentgen.NewMock()
	} else {
		provider, err := llm.NewProviderFromEnv(ctx, nil)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		gen = contentgen.New(provider, contentgen.DefaultConfig())
	}

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Concept: %s — %s (%s / %s, %s)\n",
		def.ID, def.Name, sub.Name, ch.Name, difficulty)

	if lesson {
		t, err := gen.GenerateTeaching(ctx, contentgen.TeachingRequest{
			Context:     contentgen.SessionContext{Subject: sub.Name, Chapter: ch.Name},
			ConceptID:   def.ID,
			ConceptName: def.Name,
			Keywords:    def.Keywords,
			Mastery:     0.5,
		})
		if err != nil {
			fmt.Printf("Lesson generation failed: %v\n\n", err)
		} else {
			fmt.Printf("\n── %s ──\n", t.Title)
			fmt.Println(renderMarkdown(t.Markdown))
		}
	}

	fmt.Printf("Generating %d %s questions...\n\n", count, kind)

	var correct int
	var priorPrompts []string

	for i := 1; i <= count; i++ {
		req := contentgen.QuestionRequest{
			Context: contentgen.SessionContext{
				Subject: sub.Name,
				Chapter: ch.Name,
			},
			ConceptID:   def.ID,
			ConceptName: def.Name,
			Keywords:    def.Keywords,
			Kind:        kind,
			Difficulty:  difficulty,
			Purpose:     "practice",
			Exclude:     priorPrompts,
		}

		q, err := gen.GenerateQuestion(ctx, req)
		if err != nil {
			fmt.Printf("Question %d: generation failed: %v\n\n", i, err)
			continue
		}

		priorPrompts = append(priorPrompts, q.Prompt)

		// Display question.
		fmt.Printf("── Question %d/%d ──\n", i, count)
		fmt.Println(q.Prompt)
		printAnswerFormat(q)

		// Read answer.
		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		// Grade it.
		outcome, err := question.Evaluate(q, answer)
		switch {
		case err != nil:
			fmt.Printf("\033[33m? Could not grade:\033[0m %v\n", err)
		case outcome.Correct:
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m", outcome.Detail)
		default:
			fmt.Printf("\033[31m✗ Wrong.\033[0m %s\n", outcome.Detail)
		}

		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		fmt.Println()
	}

	// Summary.
	fmt.Printf("── Summary: %d/%d correct ──\n", correct, count)
	return nil
}

// printAnswerFormat shows kind-specific options and the expected answer
// shape, so answers typed at the prompt grade correctly.
func printAnswerFormat(q *question.Question) {
	switch q.Kind {
	case question.KindMultipleChoice:
		for _, opt := range q.Options {
			fmt.Printf("  %s) %s\n", opt.ID, opt.Text)
		}
		fmt.Println("(answer with the option letter)")
	case question.KindTrueFalse:
		fmt.Println("(answer true or false)")
	case question.KindMatchPairs:
		var lefts, rights []string
		for _, p := range q.Pairs {
			lefts = append(lefts, p.Left)
			rights = append(rights, p.Right)
		}
		fmt.Println("  Left: ", strings.Join(lefts, ", "))
		fmt.Println("  Right:", strings.Join(rights, ", "))
		fmt.Println("(answer as left=right, comma-separated)")
	}
}

func kindList() string {
	var out []string
	for _, k := range question.Kinds() {
		out = append(out, string(k))
	}
	return strings.Join(out, ", ")
}

// renderMarkdown renders lesson markdown for the terminal, falling back to
// the raw text when the renderer is unavailable.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// resolveConcept finds a concept by ID first, then by name fallback, and
// returns it with its subject and chapter.
func resolveConcept(val string) (curriculum.ConceptDef, curriculum.Subject, curriculum.Chapter, error) {
	type match struct {
		def curriculum.ConceptDef
		sub curriculum.Subject
		ch  curriculum.Chapter
	}

	var byID *match
	var byName []match
	for _, sub := range curriculum.Subjects() {
		for _, ch := range sub.Chapters {
			for _, def := range ch.Concepts {
				if def.ID == val {
					byID = &match{def, sub, ch}
				}
				if strings.EqualFold(def.Name, val) {
					byName = append(byName, match{def, sub, ch})
				}
			}
		}
	}

	if byID != nil {
		return byID.def, byID.sub, byID.ch, nil
	}

	switch len(byName) {
	case 0:
		return curriculum.ConceptDef{}, curriculum.Subject{}, curriculum.Chapter{},
			fmt.Errorf("no concept found for %q (try: tutoriz concepts list)", val)
	case 1:
		return byName[0].def, byName[0].sub, byName[0].ch, nil
	default:
		var ids []string
		for _, m := range byName {
			ids = append(ids, m.def.ID)
		}
		return curriculum.ConceptDef{}, curriculum.Subject{}, curriculum.Chapter{},
			fmt.Errorf("multiple concepts match %q: %s — use --concept with a specific ID",
				val, strings.Join(ids, ", "))
	}
}
