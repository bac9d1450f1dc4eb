package evaluation

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sourcingkit/sourcer/internal/ai"
	"github.com/sourcingkit/sourcer/internal/candidate"
)

//go:embed prompt_narrative.md
var narrativePromptTemplate string

// BuildReasoning turns the analysis into per-dimension interpretive strings
// plus an overall rationale keyed by the recommendation.
func BuildReasoning(a *MatchAnalysis, rec candidate.Recommendation) *candidate.Reasoning {
	return &candidate.Reasoning{
		Skills:     interpretDimension("skill alignment", a.SkillsScore, a.SkillsNote),
		Experience: interpretDimension("experience fit", a.ExperienceScore, a.ExperienceNote),
		Location:   interpretDimension("location compatibility", a.LocationScore, a.LocationNote),
		Education:  interpretDimension("education background", a.EducationScore, a.EducationNote),
		Overall:    overallRationale(rec),
	}
}

func interpretDimension(name string, score float64, note string) string {
	var band string
	switch {
	case score >= 90:
		band = "exceptional"
	case score >= 70:
		band = "strong"
	case score >= 50:
		band = "adequate"
	default:
		band = "a significant gap"
	}

	out := fmt.Sprintf("%s: %s (%.0f/100)", name, band, score)
	if note = strings.TrimSpace(note); note != "" {
		out = fmt.Sprintf("%s - %s", out, note)
	}
	return out
}

func overallRationale(rec candidate.Recommendation) string {
	switch rec {
	case candidate.HighlySuitable:
		return "The candidate matches the role requirements across all key dimensions and should be prioritized for outreach."
	case candidate.Suitable:
		return "The candidate is a solid match for the role and is worth pursuing."
	case candidate.PotentiallySuitable:
		return "The candidate partially matches the role and needs a manual look before outreach."
	case candidate.NotSuitable:
		return "The candidate does not meet the core requirements of the role."
	default:
		return "No assessment could be derived for this candidate."
	}
}

// NarrativeGenerator produces the hiring-manager narrative. The primary path
// asks the text-generation capability; on any failure it falls back to a
// deterministic template and never reports an error.
type NarrativeGenerator struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewNarrativeGenerator(generator ai.Generator, logger *zap.Logger) *NarrativeGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NarrativeGenerator{generator: generator, logger: logger}
}

func (n *NarrativeGenerator) Narrative(ctx context.Context, rec *candidate.Record, jobRequirements string, a *MatchAnalysis, d Decision, overallScore float64) string {
	if n.generator != nil {
		prompt := buildNarrativePrompt(rec, jobRequirements, a, d, overallScore)

		text, err := n.generator.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}

		if err != nil {
			n.logger.Warn("narrative generation failed, using template fallback",
				zap.String("candidate_id", rec.ExternalID),
				zap.Error(err),
			)
		}
	}

	return FallbackNarrative(rec, a, d)
}

func buildNarrativePrompt(rec *candidate.Record, jobRequirements string, a *MatchAnalysis, d Decision, overallScore float64) string {
	replacer := strings.NewReplacer(
		"{{CANDIDATE_NAME}}", rec.Name,
		"{{CANDIDATE_TITLE}}", rec.Title,
		"{{CANDIDATE_COMPANY}}", rec.Company,
		"{{JOB_REQUIREMENTS}}", jobRequirements,
		"{{OVERALL_SCORE}}", fmt.Sprintf("%.0f", overallScore),
		"{{RECOMMENDATION}}", string(d.Recommendation),
		"{{MATCHED_SKILLS}}", strings.Join(a.MatchedSkills, ", "),
		"{{MISSING_SKILLS}}", strings.Join(a.MissingSkills, ", "),
	)
	return replacer.Replace(narrativePromptTemplate)
}

// FallbackNarrative assembles the narrative from the analysis alone. It
// always contains the candidate name, an assessment sentence, strengths and
// gaps bullets, and a next-step sentence keyed by the recommendation.
func FallbackNarrative(rec *candidate.Record, a *MatchAnalysis, d Decision) string {
	var b strings.Builder

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = "The candidate"
	}

	fmt.Fprintf(&b, "%s", name)
	if rec.Title != "" {
		fmt.Fprintf(&b, ", currently %s", rec.Title)
		if rec.Company != "" {
			fmt.Fprintf(&b, " at %s", rec.Company)
		}
	}
	fmt.Fprintf(&b, ", was assessed as %s for this role.\n\n", recommendationPhrase(d.Recommendation))

	if len(a.MatchedSkills) > 0 {
		b.WriteString("Strengths:\n")
		for _, skill := range a.MatchedSkills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
		b.WriteString("\n")
	}

	if len(a.MissingSkills) > 0 {
		b.WriteString("Gaps:\n")
		for _, skill := range a.MissingSkills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
		b.WriteString("\n")
	}

	b.WriteString(nextStepSentence(d.Recommendation))

	return b.String()
}

func recommendationPhrase(rec candidate.Recommendation) string {
	switch rec {
	case candidate.HighlySuitable:
		return "highly suitable"
	case candidate.Suitable:
		return "suitable"
	case candidate.PotentiallySuitable:
		return "potentially suitable"
	case candidate.NotSuitable:
		return "not suitable"
	default:
		return "unassessed"
	}
}

func nextStepSentence(rec candidate.Recommendation) string {
	switch rec {
	case candidate.HighlySuitable:
		return "Next step: enrich the full profile and reach out as a priority."
	case candidate.Suitable:
		return "Next step: enrich the full profile and queue for outreach."
	case candidate.PotentiallySuitable:
		return "Next step: route to a recruiter for manual review before any outreach."
	case candidate.NotSuitable:
		return "Next step: archive this candidate for the current role."
	default:
		return "Next step: re-run the evaluation for this candidate."
	}
}
