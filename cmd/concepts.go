package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/spf13/cobra"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Browse the curriculum catalog",
}

var conceptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all concepts (optionally filtered by subject)",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectID, _ := cmd.Flags().GetString("subject")

		var subjects []curriculum.Subject
		if subjectID != "" {
			sub, err := curriculum.GetSubject(subjectID)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(curriculum.SubjectIDs(), ", "))
			}
			subjects = []curriculum.Subject{sub}
		} else {
			subjects = curriculum.Subjects()
		}

		// Header.
		fmt.Printf("%-18s  %-32s  %4s  %s\n", "ID", "Name", "Mins", "Keywords")
		fmt.Println(strings.Repeat("─", 96))

		var total int
		for _, sub := range subjects {
			for _, ch := range sub.Chapters {
				fmt.Printf("%s — %s\n", sub.Name, ch.Name)
				for _, c := range ch.Concepts {
					fmt.Printf("%-18s  %-32s  %4d  %s\n",
						c.ID, truncate(c.Name, 32), c.EstimatedMins,
						strings.Join(c.Keywords, ", "))
					total++
				}
			}
		}

		fmt.Printf("\n%d concepts\n", total)
		return nil
	},
}

var conceptsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the curriculum catalog structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := curriculum.Validate(); err != nil {
			return fmt.Errorf("curriculum invalid: %w", err)
		}

		var chapters, concepts int
		for _, sub := range curriculum.Subjects() {
			chapters += len(sub.Chapters)
			for _, ch := range sub.Chapters {
				concepts += len(ch.Concepts)
			}
		}
		fmt.Printf("Curriculum OK: %d subjects, %d chapters, %d concepts\n",
			len(curriculum.Subjects()), chapters, concepts)
		return nil
	},
}

func init() {
	conceptsListCmd.Flags().String("subject", "", "Filter by subject ID (e.g. algebra)")

	conceptsCmd.AddCommand(conceptsListCmd)
	conceptsCmd.AddCommand(conceptsCheckCmd)
}
