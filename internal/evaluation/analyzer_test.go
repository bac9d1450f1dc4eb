package evaluation

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

func TestAnalyzeParsesFencedResponse(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + `{
  "skills_score": 82,
  "experience_score": "75",
  "location_score": 110,
  "education_score": null,
  "matched_skills": ["go", "kubernetes"],
  "missing_skills": ["rust"],
  "skills_note": " broad overlap "
}` + "\n```"}

	analyzer := NewAIAnalyzer(gen, nil, 0)
	rec := &candidate.Record{ExternalID: "c1", Name: "Ada"}

	analysis, err := analyzer.Analyze(context.Background(), rec, "go engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.SkillsScore != 82 {
		t.Fatalf("expected skills score 82, got %.1f", analysis.SkillsScore)
	}
	if analysis.ExperienceScore != 75 {
		t.Fatalf("expected coerced experience score 75, got %.1f", analysis.ExperienceScore)
	}
	if analysis.LocationScore != 100 {
		t.Fatalf("expected location score clamped to 100, got %.1f", analysis.LocationScore)
	}
	if analysis.EducationScore != 0 {
		t.Fatalf("expected null education score to become 0, got %.1f", analysis.EducationScore)
	}
	if !reflect.DeepEqual(analysis.MatchedSkills, []string{"go", "kubernetes"}) {
		t.Fatalf("unexpected matched skills: %v", analysis.MatchedSkills)
	}
	if analysis.SkillsNote != "broad overlap" {
		t.Fatalf("expected trimmed skills note, got %q", analysis.SkillsNote)
	}
	if !strings.Contains(gen.lastPrompt, "go engineer") {
		t.Fatalf("prompt is missing the job requirements: %q", gen.lastPrompt)
	}
}

func TestAnalyzeRejectsNonJSONResponse(t *testing.T) {
	gen := &stubGenerator{response: "I cannot answer that."}
	analyzer := NewAIAnalyzer(gen, nil, 0)

	_, err := analyzer.Analyze(context.Background(), &candidate.Record{ExternalID: "c1"}, "go engineer")
	if err == nil {
		t.Fatal("expected a parse error for a prose response")
	}
}

func TestAnalyzeRequiresJobText(t *testing.T) {
	gen := &stubGenerator{}
	analyzer := NewAIAnalyzer(gen, nil, 0)

	_, err := analyzer.Analyze(context.Background(), &candidate.Record{ExternalID: "c1"}, "")
	if err != ErrMissingJobRequirements {
		t.Fatalf("expected ErrMissingJobRequirements, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not be called on invalid input, got %d calls", gen.calls)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"padded", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.raw); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
