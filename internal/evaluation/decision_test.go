package evaluation

import (
	"testing"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

func TestDecideBaseMapping(t *testing.T) {
	cases := []struct {
		name   string
		score  float64
		want   candidate.Recommendation
		action candidate.NextAction
		prio   candidate.Priority
	}{
		{"high boundary", 65, candidate.HighlySuitable, candidate.ActionProfileScraping, candidate.PriorityHigh},
		{"just below high", 64.999, candidate.Suitable, candidate.ActionProfileScraping, candidate.PriorityMedium},
		{"medium boundary", 55, candidate.Suitable, candidate.ActionProfileScraping, candidate.PriorityMedium},
		{"low boundary", 40, candidate.PotentiallySuitable, candidate.ActionManualReview, candidate.PriorityLow},
		{"below low", 39.999, candidate.NotSuitable, candidate.ActionArchive, candidate.PriorityNone},
		{"zero", 0, candidate.NotSuitable, candidate.ActionArchive, candidate.PriorityNone},
		{"top", 100, candidate.HighlySuitable, candidate.ActionProfileScraping, candidate.PriorityHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.score, nil, nil, DefaultThresholds())
			if d.Recommendation != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, d.Recommendation)
			}
			if d.NextAction != tc.action {
				t.Fatalf("expected %s, got %s", tc.action, d.NextAction)
			}
			if d.Priority != tc.prio {
				t.Fatalf("expected %s, got %s", tc.prio, d.Priority)
			}
		})
	}
}

func TestDecideLowScoreIgnoresFactors(t *testing.T) {
	factors := []string{FactorExcellentTechnicalSkills, FactorStrongRelevantExperience}
	risks := []string{RiskSignificantSkillGap}

	d := Decide(30, factors, risks, DefaultThresholds())

	if d.Recommendation != candidate.NotSuitable {
		t.Fatalf("expected NOT_SUITABLE, got %s", d.Recommendation)
	}
	if d.Priority != candidate.PriorityNone {
		t.Fatalf("expected NONE priority, got %s", d.Priority)
	}
}

func TestDecideUpgradeRule(t *testing.T) {
	// Base SUITABLE plus both strong-signal factors upgrades to HIGHLY_SUITABLE.
	factors := []string{FactorExcellentTechnicalSkills, FactorStrongRelevantExperience}

	d := Decide(60, factors, nil, DefaultThresholds())

	if d.Recommendation != candidate.HighlySuitable {
		t.Fatalf("expected HIGHLY_SUITABLE, got %s", d.Recommendation)
	}
	if d.Priority != candidate.PriorityHigh {
		t.Fatalf("expected HIGH priority, got %s", d.Priority)
	}
	if d.NextAction != candidate.ActionProfileScraping {
		t.Fatalf("expected PROFILE_SCRAPING, got %s", d.NextAction)
	}
}

func TestDecideDowngradeWinsOverUpgrade(t *testing.T) {
	factors := []string{FactorExcellentTechnicalSkills, FactorStrongRelevantExperience}
	risks := []string{RiskSignificantSkillGap}

	d := Decide(60, factors, risks, DefaultThresholds())

	if d.Recommendation != candidate.PotentiallySuitable {
		t.Fatalf("expected downgrade to POTENTIALLY_SUITABLE, got %s", d.Recommendation)
	}
	if d.NextAction != candidate.ActionManualReview {
		t.Fatalf("expected MANUAL_REVIEW, got %s", d.NextAction)
	}
	if d.Priority != candidate.PriorityLow {
		t.Fatalf("expected LOW priority, got %s", d.Priority)
	}
}

func TestDecideDowngradeFromHigh(t *testing.T) {
	d := Decide(80, nil, []string{RiskInsufficientExperience}, DefaultThresholds())

	if d.Recommendation != candidate.PotentiallySuitable {
		t.Fatalf("expected POTENTIALLY_SUITABLE, got %s", d.Recommendation)
	}
}

func TestDeriveDecisionFactors(t *testing.T) {
	analysis := &MatchAnalysis{
		SkillsScore:     85,
		ExperienceScore: 85,
		LocationScore:   65,
		MatchedSkills:   []string{"go", "kubernetes", "grpc", "postgres"},
	}

	factors := DeriveDecisionFactors(analysis, 60)

	expected := []string{
		FactorExcellentTechnicalSkills,
		FactorStrongRelevantExperience,
		FactorAcceptableLocation,
		FactorComprehensiveSkillCoverage,
	}
	if len(factors) != len(expected) {
		t.Fatalf("expected %d factors, got %d: %v", len(expected), len(factors), factors)
	}
	for i, want := range expected {
		if factors[i] != want {
			t.Fatalf("expected factor %q at %d, got %q", want, i, factors[i])
		}
	}
}

func TestDeriveRiskFactors(t *testing.T) {
	analysis := &MatchAnalysis{
		SkillsScore:     45,
		ExperienceScore: 65,
		LocationScore:   30,
		MissingSkills:   []string{"rust", "terraform", "aws", "kafka"},
	}

	risks := DeriveRiskFactors(analysis, 50)

	expected := []string{
		RiskSignificantSkillGap,
		RiskExperienceConcerns,
		RiskLocationMismatch,
		RiskMultipleMissingSkills,
		RiskOverallWeakMatch,
	}
	if len(risks) != len(expected) {
		t.Fatalf("expected %d risks, got %d: %v", len(expected), len(risks), risks)
	}
	for i, want := range expected {
		if risks[i] != want {
			t.Fatalf("expected risk %q at %d, got %q", want, i, risks[i])
		}
	}
}
