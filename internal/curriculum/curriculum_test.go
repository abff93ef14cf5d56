package curriculum

import (
	"strings"
	"testing"
)

func TestGetConcept_Exists(t *testing.T) {
	def, err := GetConcept("alg-slope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "Slope and Intercept" {
		t.Errorf("got name %q, want %q", def.Name, "Slope and Intercept")
	}
	if def.EstimatedMins != 15 {
		t.Errorf("got estimated mins %d, want 15", def.EstimatedMins)
	}
}

func TestGetConcept_NotFound(t *testing.T) {
	_, err := GetConcept("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent concept, got nil")
	}
}

func TestGetChapter(t *testing.T) {
	ch, err := GetChapter("algebra", "linear-equations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ch.Concepts) != 5 {
		t.Errorf("got %d concepts, want 5", len(ch.Concepts))
	}
	if ch.Concepts[0].ID != "alg-variables" {
		t.Errorf("first concept = %q, want alg-variables", ch.Concepts[0].ID)
	}
}

func TestGetChapter_UnknownSubject(t *testing.T) {
	if _, err := GetChapter("nope", "linear-equations"); err == nil {
		t.Fatal("expected error for unknown subject, got nil")
	}
	if _, err := GetChapter("algebra", "nope"); err == nil {
		t.Fatal("expected error for unknown chapter, got nil")
	}
}

func TestOrder_FollowsChapterPosition(t *testing.T) {
	if Order("alg-variables") >= Order("alg-one-step") {
		t.Error("alg-variables should order before alg-one-step")
	}
	if Order("alg-one-step") >= Order("alg-two-step") {
		t.Error("alg-one-step should order before alg-two-step")
	}
}

func TestOrder_UnknownSortsLast(t *testing.T) {
	unknown := Order("nonexistent")
	for _, sub := range Subjects() {
		for _, ch := range sub.Chapters {
			for _, def := range ch.Concepts {
				if Order(def.ID) >= unknown {
					t.Errorf("known concept %q should order before unknown", def.ID)
				}
			}
		}
	}
}

func TestValidate_SeedCatalogPasses(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("seed catalog validation failed: %v", err)
	}
}

func TestValidateSubjects_DetectsDuplicateConceptID(t *testing.T) {
	subjects := []Subject{
		{ID: "s", Name: "S", Chapters: []Chapter{
			{ID: "c", Name: "C", Concepts: []ConceptDef{
				{ID: "a", Name: "A", EstimatedMins: 5, Keywords: []string{"k"}},
				{ID: "a", Name: "A2", EstimatedMins: 5, Keywords: []string{"k"}},
			}},
		}},
	}
	err := validateSubjects(subjects)
	if err == nil {
		t.Fatal("expected error for duplicate concept ID, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate concept ID") {
		t.Errorf("error should mention the duplicate, got: %v", err)
	}
}

func TestValidateSubjects_DetectsEmptyChapter(t *testing.T) {
	subjects := []Subject{
		{ID: "s", Name: "S", Chapters: []Chapter{
			{ID: "c", Name: "C", Concepts: nil},
		}},
	}
	err := validateSubjects(subjects)
	if err == nil {
		t.Fatal("expected error for empty chapter, got nil")
	}
	if !strings.Contains(err.Error(), "no concepts") {
		t.Errorf("error should mention missing concepts, got: %v", err)
	}
}

func TestValidateSubjects_DetectsBadEstimate(t *testing.T) {
	subjects := []Subject{
		{ID: "s", Name: "S", Chapters: []Chapter{
			{ID: "c", Name: "C", Concepts: []ConceptDef{
				{ID: "a", Name: "A", EstimatedMins: 0, Keywords: []string{"k"}},
			}},
		}},
	}
	err := validateSubjects(subjects)
	if err == nil {
		t.Fatal("expected error for zero estimate, got nil")
	}
}
