package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
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
		list, err := s.SessionRepo().List(ctx, store.ListOpts{})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No sessions recorded yet. Run tutoriz to start one.")
			return nil
		}

		printStats(list)
		return nil
	},
}

type subjectStats struct {
	id       string
	sessions int
	xp       int
	mastered map[string]bool
}

func printStats(list []*session.Session) {
	var completed, attempted, correct, xp, hints, bestStreak int
	var studied time.Duration
	mastered := make(map[string]bool)
	bySubject := make(map[string]*subjectStats)

	for _, sess := range list {
		if sess.Phase == session.PhaseCompleted {
			completed++
		}
		attempted += sess.Stats.QuestionsAttempted
		correct += sess.Stats.QuestionsCorrect
		xp += sess.Stats.XP
		hints += sess.Stats.HintsUsed
		studied += sess.Stats.TimeSpent
		if sess.Stats.BestStreak > bestStreak {
			bestStreak = sess.Stats.BestStreak
		}

		sub := bySubject[sess.Subject]
		if sub == nil {
			sub = &subjectStats{id: sess.Subject, mastered: make(map[string]bool)}
			bySubject[sess.Subject] = sub
		}
		sub.sessions++
		sub.xp += sess.Stats.XP

		for _, c := range sess.Concepts {
			if c.Status == session.ConceptMastered {
				mastered[c.ID] = true
				sub.mastered[c.ID] = true
			}
		}
	}

	fmt.Println("Overview")
	fmt.Println(strings.Repeat("─", 44))
	fmt.Printf("Sessions:          %d (%d completed)\n", len(list), completed)
	if attempted > 0 {
		fmt.Printf("Questions:         %d answered, %d correct (%d%%)\n",
			attempted, correct, correct*100/attempted)
	} else {
		fmt.Println("Questions:         none answered yet")
	}
	fmt.Printf("XP earned:         %d\n", xp)
	fmt.Printf("Best streak:       %d\n", bestStreak)
	fmt.Printf("Hints used:        %d\n", hints)
	fmt.Printf("Time studied:      %s\n", formatStudyTime(studied))
	fmt.Printf("Concepts mastered: %d\n", len(mastered))

	subjects := make([]*subjectStats, 0, len(bySubject))
	for _, sub := range bySubject {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].xp > subjects[j].xp })

	fmt.Println()
	fmt.Println("By Subject")
	fmt.Println(strings.Repeat("─", 64))
	fmt.Printf("%-32s  %8s  %6s  %8s\n", "Subject", "Sessions", "XP", "Mastered")
	fmt.Println(strings.Repeat("─", 64))
	for _, sub := range subjects {
		name := sub.id
		if s, err := curriculum.GetSubject(sub.id); err == nil {
			name = s.Name
		}
		fmt.Printf("%-32s  %8d  %6d  %8d\n",
			truncate(name, 32), sub.sessions, sub.xp, len(sub.mastered))
	}
}

func formatStudyTime(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
