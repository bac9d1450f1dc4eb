package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestNarrativeUsesGeneratorText(t *testing.T) {
	gen := &stubGenerator{response: "  A bespoke narrative.  "}
	n := NewNarrativeGenerator(gen, nil)

	rec := &candidate.Record{ExternalID: "c1", Name: "Ada Lovelace", Title: "Engineer"}
	analysis := &MatchAnalysis{MatchedSkills: []string{"go"}}
	got := n.Narrative(context.Background(), rec, "go engineer", analysis, Decision{Recommendation: candidate.Suitable}, 60)

	if got != "A bespoke narrative." {
		t.Fatalf("expected trimmed generator text, got %q", got)
	}
	if gen.calls != 1 {
		t.Fatalf("expected exactly one generation call, got %d", gen.calls)
	}
	if !strings.Contains(gen.lastPrompt, "Ada Lovelace") {
		t.Fatalf("prompt does not carry the candidate name: %q", gen.lastPrompt)
	}
}

func TestNarrativeFallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	n := NewNarrativeGenerator(gen, nil)

	rec := &candidate.Record{ExternalID: "c1", Name: "Grace Hopper"}
	analysis := &MatchAnalysis{
		MatchedSkills: []string{"go", "kubernetes"},
		MissingSkills: []string{"rust"},
	}
	d := Decision{Recommendation: candidate.HighlySuitable}

	got := n.Narrative(context.Background(), rec, "go engineer", analysis, d, 85)

	if !strings.Contains(got, "Grace Hopper") {
		t.Fatalf("fallback narrative is missing the candidate name: %q", got)
	}
	if !strings.Contains(got, "highly suitable") {
		t.Fatalf("fallback narrative is missing the assessment phrase: %q", got)
	}
	if !strings.Contains(got, "Next step:") {
		t.Fatalf("fallback narrative is missing the next-step sentence: %q", got)
	}
}

func TestFallbackNarrativeWithoutName(t *testing.T) {
	got := FallbackNarrative(&candidate.Record{ExternalID: "c1"}, &MatchAnalysis{}, Decision{Recommendation: candidate.NotSuitable})

	if !strings.HasPrefix(got, "The candidate") {
		t.Fatalf("expected generic subject, got %q", got)
	}
	if !strings.Contains(got, "archive this candidate") {
		t.Fatalf("expected archive next step, got %q", got)
	}
}

func TestBuildReasoningBands(t *testing.T) {
	analysis := &MatchAnalysis{
		SkillsScore:     92,
		ExperienceScore: 75,
		LocationScore:   55,
		EducationScore:  30,
	}

	r := BuildReasoning(analysis, candidate.PotentiallySuitable)

	if !strings.Contains(r.Skills, "exceptional") {
		t.Fatalf("unexpected skills reasoning: %q", r.Skills)
	}
	if !strings.Contains(r.Experience, "strong") {
		t.Fatalf("unexpected experience reasoning: %q", r.Experience)
	}
	if !strings.Contains(r.Location, "adequate") {
		t.Fatalf("unexpected location reasoning: %q", r.Location)
	}
	if !strings.Contains(r.Education, "a significant gap") {
		t.Fatalf("unexpected education reasoning: %q", r.Education)
	}
	if !strings.Contains(r.Overall, "manual look") {
		t.Fatalf("unexpected overall rationale: %q", r.Overall)
	}
}
