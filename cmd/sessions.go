package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored study sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		phase, _ := cmd.Flags().GetString("phase")

		if phase != "" && !session.Phase(phase).Valid() {
			return fmt.Errorf("unknown phase %q", phase)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		list, err := s.SessionRepo().List(ctx, store.ListOpts{Phase: phase, Limit: limit})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-36s  %-11s  %4s  %4s  %5s\n",
			"ID", "Updated", "Chapter", "Phase", "Qs", "XP", "Acc")
		fmt.Println(strings.Repeat("─", 124))

		for _, sess := range list {
			acc := "-"
			if sess.Stats.QuestionsAttempted > 0 {
				acc = fmt.Sprintf("%d%%",
					sess.Stats.QuestionsCorrect*100/sess.Stats.QuestionsAttempted)
			}
			fmt.Printf("%-36s  %-16s  %-36s  %-11s  %4d  %4d  %5s\n",
				sess.ID,
				sess.UpdatedAt.Local().Format("2006-01-02 15:04"),
				truncate(chapterTitle(sess), 36),
				sess.Phase,
				sess.Stats.QuestionsAttempted,
				sess.Stats.XP,
				acc,
			)
		}
		fmt.Printf("\n%d sessions\n", len(list))
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		sess, err := s.SessionRepo().Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		printSession(sess)
		return nil
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.SessionRepo().Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func printSession(sess *session.Session) {
	fmt.Printf("ID:       %s\n", sess.ID)
	fmt.Printf("Chapter:  %s\n", chapterTitle(sess))
	if sess.Profile.Name != "" {
		fmt.Printf("Student:  %s\n", sess.Profile.Name)
	}
	fmt.Printf("Phase:    %s\n", sess.Phase)
	fmt.Printf("Started:  %s\n", sess.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Updated:  %s\n", sess.UpdatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Answers:  %d/%d correct\n",
		sess.Stats.QuestionsCorrect, sess.Stats.QuestionsAttempted)
	fmt.Printf("XP:       %d  (best streak %d, hints %d)\n",
		sess.Stats.XP, sess.Stats.BestStreak, sess.Stats.HintsUsed)

	if len(sess.Concepts) > 0 {
		fmt.Println()
		fmt.Printf("%-2s %-36s  %-12s  %7s  %8s\n", "", "Concept", "Status", "Mastery", "Attempts")
		fmt.Println(strings.Repeat("─", 72))
		for _, c := range sess.Concepts {
			fmt.Printf("%-2s %-36s  %-12s  %6.0f%%  %8d\n",
				statusGlyph(c.Status), truncate(c.Name, 36), c.Status, c.Mastery*100, c.Attempts)
		}
	}

	if sess.Summary != nil && sess.Summary.Text != "" {
		fmt.Println()
		fmt.Println(sess.Summary.Text)
		for _, h := range sess.Summary.Highlights {
			fmt.Println("  +", h)
		}
		for _, p := range sess.Summary.PracticeAreas {
			fmt.Println("  ~", p)
		}
		for _, r := range sess.Summary.Review {
			fmt.Printf("  ↻ %s in %d days\n", r.Name, r.Days)
		}
	}
}

// chapterTitle resolves "Subject · Chapter" display names, falling back to
// the raw IDs for sessions whose curriculum entries no longer exist.
func chapterTitle(sess *session.Session) string {
	subject, chapter := sess.Subject, sess.Chapter
	if sub, err := curriculum.GetSubject(sess.Subject); err == nil {
		subject = sub.Name
	}
	if ch, err := curriculum.GetChapter(sess.Subject, sess.Chapter); err == nil {
		chapter = ch.Name
	}
	return subject + " · " + chapter
}

func statusGlyph(st session.ConceptStatus) string {
	switch st {
	case session.ConceptMastered:
		return "★"
	case session.ConceptSkipped:
		return "↷"
	case session.ConceptInProgress:
		return "▸"
	default:
		return "·"
	}
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 = all)")
	sessionsListCmd.Flags().StringP("phase", "p", "", "Filter by phase (e.g. teaching, completed)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)
}
