package curriculum

import "fmt"

func init() {
	if err := validateSubjects(seedSubjects); err != nil {
		panic(fmt.Sprintf("curriculum: invalid seed data: %v", err))
	}
	c = buildCatalog(seedSubjects)
}

// seedSubjects is the built-in curriculum. Concept order within a chapter is
// the canonical teaching order and breaks ties when plans are sorted.
var seedSubjects = []Subject{
	{
		ID:   "algebra",
		Name: "Algebra I",
		Chapters: []Chapter{
			{
				ID:   "linear-equations",
				Name: "Linear Equations",
				Concepts: []ConceptDef{
					{
						ID:            "alg-variables",
						Name:          "Variables and Expressions",
						EstimatedMins: 10,
						Keywords:      []string{"variable", "expression", "term", "coefficient"},
					},
					{
						ID:            "alg-one-step",
						Name:          "One-Step Equations",
						EstimatedMins: 12,
						Keywords:      []string{"inverse operation", "isolate", "balance"},
					},
					{
						ID:            "alg-two-step",
						Name:          "Two-Step Equations",
						EstimatedMins: 15,
						Keywords:      []string{"order of operations", "isolate", "combine"},
					},
					{
						ID:            "alg-slope",
						Name:          "Slope and Intercept",
						EstimatedMins: 15,
						Keywords:      []string{"slope", "intercept", "rise", "run", "gradient"},
					},
					{
						ID:            "alg-graphing",
						Name:          "Graphing Linear Equations",
						EstimatedMins: 18,
						Keywords:      []string{"axis", "plot", "coordinate", "line"},
					},
				},
			},
			{
				ID:   "quadratics",
				Name: "Quadratic Equations",
				Concepts: []ConceptDef{
					{
						ID:            "alg-factoring",
						Name:          "Factoring Quadratics",
						EstimatedMins: 18,
						Keywords:      []string{"factor", "root", "zero product"},
					},
					{
						ID:            "alg-quad-formula",
						Name:          "The Quadratic Formula",
						EstimatedMins: 15,
						Keywords:      []string{"discriminant", "formula", "radical"},
					},
					{
						ID:            "alg-parabolas",
						Name:          "Parabolas and Vertex Form",
						EstimatedMins: 18,
						Keywords:      []string{"vertex", "parabola", "axis of symmetry"},
					},
				},
			},
		},
	},
	{
		ID:   "physics",
		Name: "Physics Fundamentals",
		Chapters: []Chapter{
			{
				ID:   "kinematics",
				Name: "Kinematics",
				Concepts: []ConceptDef{
					{
						ID:            "phy-velocity",
						Name:          "Velocity and Speed",
						EstimatedMins: 12,
						Keywords:      []string{"velocity", "speed", "displacement", "direction"},
					},
					{
						ID:            "phy-acceleration",
						Name:          "Acceleration",
						EstimatedMins: 15,
						Keywords:      []string{"acceleration", "change", "velocity", "rate"},
					},
					{
						ID:            "phy-freefall",
						Name:          "Free Fall",
						EstimatedMins: 15,
						Keywords:      []string{"gravity", "free fall", "9.8"},
					},
				},
			},
			{
				ID:   "forces",
				Name: "Forces and Newton's Laws",
				Concepts: []ConceptDef{
					{
						ID:            "phy-newton-first",
						Name:          "Newton's First Law",
						EstimatedMins: 10,
						Keywords:      []string{"inertia", "rest", "motion", "unbalanced"},
					},
					{
						ID:            "phy-newton-second",
						Name:          "Newton's Second Law",
						EstimatedMins: 15,
						Keywords:      []string{"force", "mass", "acceleration", "f=ma"},
					},
					{
						ID:            "phy-friction",
						Name:          "Friction",
						EstimatedMins: 12,
						Keywords:      []string{"friction", "surface", "normal force", "oppose"},
					},
				},
			},
		},
	},
}
