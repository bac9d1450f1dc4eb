package evaluation

import "github.com/sourcingkit/sourcer/internal/candidate"

// Thresholds are the score boundaries used by the decision engine.
type Thresholds struct {
	HighPriority   float64
	MediumPriority float64
	LowPriority    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{HighPriority: 65, MediumPriority: 55, LowPriority: 40}
}

// Decision is the joint recommendation / next action / priority verdict.
type Decision struct {
	Recommendation candidate.Recommendation
	NextAction     candidate.NextAction
	Priority       candidate.Priority
}

// Decision factor tags (positive signals).
const (
	FactorExcellentTechnicalSkills   = "excellent_technical_skills"
	FactorGoodTechnicalSkills        = "good_technical_skills"
	FactorStrongRelevantExperience   = "strong_relevant_experience"
	FactorAdequateExperience         = "adequate_experience"
	FactorPerfectLocationMatch       = "perfect_location_match"
	FactorAcceptableLocation         = "acceptable_location"
	FactorExceptionalOverallFit      = "exceptional_overall_fit"
	FactorStrongOverallFit           = "strong_overall_fit"
	FactorComprehensiveSkillCoverage = "comprehensive_skill_coverage"
)

// Risk factor tags (negative signals).
const (
	RiskSignificantSkillGap    = "significant_skill_gap"
	RiskModerateSkillGap       = "moderate_skill_gap"
	RiskInsufficientExperience = "insufficient_experience"
	RiskExperienceConcerns     = "experience_concerns"
	RiskLocationMismatch       = "location_mismatch"
	RiskLocationConsiderations = "location_considerations"
	RiskMultipleMissingSkills  = "multiple_missing_skills"
	RiskOverallWeakMatch       = "overall_weak_match"
)

// Decide maps a composite score plus qualitative factors to a recommendation,
// next action and priority. Overrides apply in order: the upgrade rule first,
// then the downgrade rule, so a downgrade always wins when both trigger.
func Decide(overallScore float64, decisionFactors, riskFactors []string, t Thresholds) Decision {
	d := baseDecision(overallScore, t)

	// Scores below the low threshold are final regardless of factors.
	if d.Recommendation == candidate.NotSuitable {
		return d
	}

	if d.Recommendation == candidate.Suitable &&
		contains(decisionFactors, FactorExcellentTechnicalSkills) &&
		contains(decisionFactors, FactorStrongRelevantExperience) {
		d = Decision{
			Recommendation: candidate.HighlySuitable,
			NextAction:     candidate.ActionProfileScraping,
			Priority:       candidate.PriorityHigh,
		}
	}

	if (d.Recommendation == candidate.HighlySuitable || d.Recommendation == candidate.Suitable) &&
		(contains(riskFactors, RiskSignificantSkillGap) || contains(riskFactors, RiskInsufficientExperience)) {
		d = Decision{
			Recommendation: candidate.PotentiallySuitable,
			NextAction:     candidate.ActionManualReview,
			Priority:       candidate.PriorityLow,
		}
	}

	return d
}

func baseDecision(score float64, t Thresholds) Decision {
	switch {
	case score >= t.HighPriority:
		return Decision{candidate.HighlySuitable, candidate.ActionProfileScraping, candidate.PriorityHigh}
	case score >= t.MediumPriority:
		return Decision{candidate.Suitable, candidate.ActionProfileScraping, candidate.PriorityMedium}
	case score >= t.LowPriority:
		return Decision{candidate.PotentiallySuitable, candidate.ActionManualReview, candidate.PriorityLow}
	default:
		return Decision{candidate.NotSuitable, candidate.ActionArchive, candidate.PriorityNone}
	}
}

// DeriveDecisionFactors returns the positive-signal tags for the analysis, in
// a fixed order.
func DeriveDecisionFactors(a *MatchAnalysis, overallScore float64) []string {
	var factors []string

	switch {
	case a.SkillsScore >= 80:
		factors = append(factors, FactorExcellentTechnicalSkills)
	case a.SkillsScore >= 60:
		factors = append(factors, FactorGoodTechnicalSkills)
	}

	switch {
	case a.ExperienceScore >= 80:
		factors = append(factors, FactorStrongRelevantExperience)
	case a.ExperienceScore >= 60:
		factors = append(factors, FactorAdequateExperience)
	}

	switch {
	case a.LocationScore >= 80:
		factors = append(factors, FactorPerfectLocationMatch)
	case a.LocationScore >= 60:
		factors = append(factors, FactorAcceptableLocation)
	}

	switch {
	case overallScore >= 85:
		factors = append(factors, FactorExceptionalOverallFit)
	case overallScore >= 70:
		factors = append(factors, FactorStrongOverallFit)
	}

	if len(a.MatchedSkills) >= 4 {
		factors = append(factors, FactorComprehensiveSkillCoverage)
	}

	return factors
}

// DeriveRiskFactors returns the negative-signal tags for the analysis, in a
// fixed order.
func DeriveRiskFactors(a *MatchAnalysis, overallScore float64) []string {
	var risks []string

	switch {
	case a.SkillsScore < 50:
		risks = append(risks, RiskSignificantSkillGap)
	case a.SkillsScore < 70:
		risks = append(risks, RiskModerateSkillGap)
	}

	switch {
	case a.ExperienceScore < 50:
		risks = append(risks, RiskInsufficientExperience)
	case a.ExperienceScore < 70:
		risks = append(risks, RiskExperienceConcerns)
	}

	switch {
	case a.LocationScore < 50:
		risks = append(risks, RiskLocationMismatch)
	case a.LocationScore < 70:
		risks = append(risks, RiskLocationConsiderations)
	}

	if len(a.MissingSkills) > 3 {
		risks = append(risks, RiskMultipleMissingSkills)
	}

	if overallScore < 60 {
		risks = append(risks, RiskOverallWeakMatch)
	}

	return risks
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
