package curriculum

import (
	"fmt"
	"sort"
)

// ConceptDef is a single teachable concept within a chapter.
type ConceptDef struct {
	ID            string
	Name          string
	EstimatedMins int
	Keywords      []string
}

// Chapter groups an ordered run of concepts.
type Chapter struct {
	ID       string
	Name     string
	Concepts []ConceptDef
}

// Subject is a top-level study area.
type Subject struct {
	ID       string
	Name     string
	Chapters []Chapter
}

// catalog holds the curriculum with precomputed indices.
type catalog struct {
	subjects     []Subject
	subjectByID  map[string]*Subject
	conceptByID  map[string]*ConceptDef
	conceptOrder map[string]int // concept ID → position in its chapter
}

// c is the package-level catalog singleton, set by init() in seed.go.
var c *catalog

// buildCatalog constructs the catalog from a slice of subjects.
func buildCatalog(subjects []Subject) *catalog {
	cat := &catalog{
		subjects:     subjects,
		subjectByID:  make(map[string]*Subject, len(subjects)),
		conceptByID:  make(map[string]*ConceptDef),
		conceptOrder: make(map[string]int),
	}
	for i := range cat.subjects {
		sub := &cat.subjects[i]
		cat.subjectByID[sub.ID] = sub
		for j := range sub.Chapters {
			ch := &sub.Chapters[j]
			for k := range ch.Concepts {
				cat.conceptByID[ch.Concepts[k].ID] = &ch.Concepts[k]
				cat.conceptOrder[ch.Concepts[k].ID] = k
			}
		}
	}
	return cat
}

// Subjects returns all subjects in display order.
func Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// GetSubject returns the subject with the given ID.
func GetSubject(id string) (Subject, error) {
	sub, ok := c.subjectByID[id]
	if !ok {
		return Subject{}, fmt.Errorf("unknown subject: %q", id)
	}
	return *sub, nil
}

// GetChapter returns the chapter with the given ID within a subject.
func GetChapter(subjectID, chapterID string) (Chapter, error) {
	sub, ok := c.subjectByID[subjectID]
	if !ok {
		return Chapter{}, fmt.Errorf("unknown subject: %q", subjectID)
	}
	for _, ch := range sub.Chapters {
		if ch.ID == chapterID {
			return ch, nil
		}
	}
	return Chapter{}, fmt.Errorf("unknown chapter %q in subject %q", chapterID, subjectID)
}

// GetConcept returns the concept definition with the given ID.
func GetConcept(id string) (ConceptDef, error) {
	def, ok := c.conceptByID[id]
	if !ok {
		return ConceptDef{}, fmt.Errorf("unknown concept: %q", id)
	}
	return *def, nil
}

// Order returns a concept's position within its chapter. Unknown concepts
// sort after all known ones.
func Order(conceptID string) int {
	if idx, ok := c.conceptOrder[conceptID]; ok {
		return idx
	}
	return len(c.conceptOrder)
}

// SubjectIDs returns all subject IDs sorted alphabetically.
func SubjectIDs() []string {
	ids := make([]string, 0, len(c.subjectByID))
	for id := range c.subjectByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate re-runs structural checks on the loaded catalog. Exposed for the
// concepts command and tests; init() panics on an invalid seed.
func Validate() error {
	return validateSubjects(c.subjects)
}
