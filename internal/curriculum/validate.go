package curriculum

import (
	"fmt"
	"strings"
)

// validateSubjects performs structural checks on the given subjects.
// Returns a combined error describing all problems found, or nil if valid.
func validateSubjects(subjects []Subject) error {
	var errs []string

	if len(subjects) == 0 {
		errs = append(errs, "no subjects defined")
	}

	subjectIDs := make(map[string]bool, len(subjects))
	conceptIDs := make(map[string]bool)

	for _, sub := range subjects {
		if sub.ID == "" {
			errs = append(errs, "subject with empty ID")
		}
		if sub.Name == "" {
			errs = append(errs, fmt.Sprintf("subject %q has empty name", sub.ID))
		}
		if subjectIDs[sub.ID] {
			errs = append(errs, fmt.Sprintf("duplicate subject ID: %q", sub.ID))
		}
		subjectIDs[sub.ID] = true

		if len(sub.Chapters) == 0 {
			errs = append(errs, fmt.Sprintf("subject %q has no chapters", sub.ID))
		}

		chapterIDs := make(map[string]bool, len(sub.Chapters))
		for _, ch := range sub.Chapters {
			if ch.ID == "" {
				errs = append(errs, fmt.Sprintf("subject %q has a chapter with empty ID", sub.ID))
			}
			if chapterIDs[ch.ID] {
				errs = append(errs, fmt.Sprintf("duplicate chapter ID %q in subject %q", ch.ID, sub.ID))
			}
			chapterIDs[ch.ID] = true

			if len(ch.Concepts) == 0 {
				errs = append(errs, fmt.Sprintf("chapter %q has no concepts", ch.ID))
			}

			for _, def := range ch.Concepts {
				if def.ID == "" {
					errs = append(errs, fmt.Sprintf("chapter %q has a concept with empty ID", ch.ID))
				}
				if def.Name == "" {
					errs = append(errs, fmt.Sprintf("concept %q has empty name", def.ID))
				}
				if conceptIDs[def.ID] {
					errs = append(errs, fmt.Sprintf("duplicate concept ID: %q", def.ID))
				}
				conceptIDs[def.ID] = true

				if def.EstimatedMins <= 0 {
					errs = append(errs, fmt.Sprintf("concept %q: EstimatedMins must be > 0, got %d", def.ID, def.EstimatedMins))
				}
				if len(def.Keywords) == 0 {
					errs = append(errs, fmt.Sprintf("concept %q has no keywords", def.ID))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
