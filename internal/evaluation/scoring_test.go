package evaluation

import (
	"reflect"
	"testing"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

func floatPtr(v float64) *float64 { return &v }

func TestAnalyzeLocallyRequiresJobText(t *testing.T) {
	_, err := AnalyzeLocally(&candidate.Record{ExternalID: "c1"}, "   ")
	if err != ErrMissingJobRequirements {
		t.Fatalf("expected ErrMissingJobRequirements, got %v", err)
	}
}

func TestAnalyzeLocallySkillIntersection(t *testing.T) {
	rec := &candidate.Record{
		ExternalID: "c1",
		Skills:     []string{"Go", "Kubernetes", "PostgreSQL"},
	}

	analysis, err := AnalyzeLocally(rec, "go kubernetes grpc terraform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := analysis.MatchedSkills; !reflect.DeepEqual(got, []string{"go", "kubernetes"}) {
		t.Fatalf("unexpected matched skills: %v", got)
	}
	if got := analysis.MissingSkills; !reflect.DeepEqual(got, []string{"grpc", "terraform"}) {
		t.Fatalf("unexpected missing skills: %v", got)
	}
	if analysis.SkillsScore != 50 {
		t.Fatalf("expected skills score 50 for 2 of 4, got %.1f", analysis.SkillsScore)
	}
}

func TestAnalyzeLocallyDeterministic(t *testing.T) {
	rec := &candidate.Record{
		ExternalID:      "c1",
		Skills:          []string{"go", "docker"},
		YearsExperience: floatPtr(6),
		Location:        "Berlin, Germany",
		Education:       []candidate.Education{{Degree: "Master of Science"}},
	}
	job := "Senior engineer, 5+ years go docker kafka, Berlin"

	first, err := AnalyzeLocally(rec, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := AnalyzeLocally(rec, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis is not deterministic: %+v vs %+v", first, second)
	}
}

func TestExperienceScore(t *testing.T) {
	cases := []struct {
		name  string
		years *float64
		job   string
		want  float64
	}{
		{"unknown years", nil, "5+ years required", 50},
		{"meets stated requirement", floatPtr(5), "5+ years of go", 100},
		{"half of stated requirement", floatPtr(3), "6 years of go", 50},
		{"exceeds stated requirement capped", floatPtr(12), "4 years of go", 100},
		{"no stated requirement senior", floatPtr(9), "go engineer", 90},
		{"no stated requirement junior", floatPtr(1), "go engineer", 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &candidate.Record{YearsExperience: tc.years}
			if got := experienceScore(rec, tc.job); got != tc.want {
				t.Fatalf("expected %.1f, got %.1f", tc.want, got)
			}
		})
	}
}

func TestLocationScore(t *testing.T) {
	cases := []struct {
		name     string
		location string
		job      string
		want     float64
	}{
		{"remote role", "Lisbon", "fully remote position", 100},
		{"city match", "Berlin, Germany", "engineer in berlin", 100},
		{"no location on profile", "", "engineer in berlin", 50},
		{"mismatch", "Tokyo", "engineer in berlin", 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &candidate.Record{Location: tc.location}
			if got := locationScore(rec, tc.job); got != tc.want {
				t.Fatalf("expected %.1f, got %.1f", tc.want, got)
			}
		})
	}
}

func TestOverallWeighting(t *testing.T) {
	analysis := &MatchAnalysis{
		SkillsScore:     80,
		ExperienceScore: 60,
		LocationScore:   100,
		EducationScore:  40,
	}

	// 80*0.4 + 60*0.3 + 100*0.15 + 40*0.15 = 71
	if got := analysis.Overall(DefaultWeights()); got != 71 {
		t.Fatalf("expected 71, got %.2f", got)
	}

	// Zero weights fall back to the defaults.
	if got := analysis.Overall(Weights{}); got != 71 {
		t.Fatalf("expected default-weighted 71, got %.2f", got)
	}
}

func TestExtractSkillsDedupAndOrder(t *testing.T) {
	got := extractSkills("Go and go and Kubernetes, plus C# knowledge")
	want := []string{"go", "kubernetes", "c#"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
