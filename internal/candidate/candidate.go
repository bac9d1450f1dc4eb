package candidate

import (
	"time"
)

// Recommendation is the evaluation verdict for a candidate.
type Recommendation string

const (
	HighlySuitable      Recommendation = "HIGHLY_SUITABLE"
	Suitable            Recommendation = "SUITABLE"
	PotentiallySuitable Recommendation = "POTENTIALLY_SUITABLE"
	NotSuitable         Recommendation = "NOT_SUITABLE"
)

// NextAction is what should happen to a candidate after evaluation.
type NextAction string

const (
	ActionProfileScraping NextAction = "PROFILE_SCRAPING"
	ActionManualReview    NextAction = "MANUAL_REVIEW"
	ActionArchive         NextAction = "ARCHIVE"
)

// Priority orders candidates for downstream processing.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
	PriorityNone   Priority = "NONE"
)

// Education is a single education entry on a profile.
type Education struct {
	School  string `json:"school,omitempty"`
	Degree  string `json:"degree,omitempty"`
	Field   string `json:"field,omitempty"`
	EndYear int    `json:"end_year,omitempty"`
}

// Record is a discovered professional profile. A record is created by search,
// annotated by evaluation and extended by enrichment. The profile URL is the
// canonical dedup key and must never change once set.
type Record struct {
	ExternalID string `json:"external_id" mapstructure:"external_id"`
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	// YearsExperience is optional; nil means the profile does not expose it.
	YearsExperience *float64    `json:"years_experience,omitempty" mapstructure:"years_experience"`
	Skills          []string    `json:"skills,omitempty"`
	Education       []Education `json:"education,omitempty"`
	Email           string      `json:"email,omitempty"`
	ProfileURL      string      `json:"profile_url,omitempty" mapstructure:"profile_url"`

	// Set by evaluation.
	SuitabilityStatus    Recommendation `json:"suitability_status,omitempty" mapstructure:"suitability_status"`
	SuitabilityScore     float64        `json:"suitability_score,omitempty" mapstructure:"suitability_score"`
	SuitabilityReasoning string         `json:"suitability_reasoning,omitempty" mapstructure:"suitability_reasoning"`
	EvaluationID         string         `json:"evaluation_id,omitempty" mapstructure:"evaluation_id"`
	Priority             Priority       `json:"priority,omitempty"`
	NextAction           NextAction     `json:"next_action,omitempty" mapstructure:"next_action"`

	// Set by enrichment.
	About     string   `json:"about,omitempty"`
	Positions []string `json:"positions,omitempty"`
	Enriched  bool     `json:"enriched,omitempty"`
}

// Assessment is the decision record attached to a candidate after evaluation.
type Assessment struct {
	EvaluationID    string         `json:"evaluation_id"`
	OverallScore    float64        `json:"overall_score"`
	Recommendation  Recommendation `json:"recommendation"`
	NextAction      NextAction     `json:"next_action"`
	Priority        Priority       `json:"priority"`
	DecisionFactors []string       `json:"decision_factors,omitempty"`
	RiskFactors     []string       `json:"risk_factors,omitempty"`
	Reasoning       *Reasoning     `json:"reasoning,omitempty"`
	Narrative       string         `json:"narrative,omitempty"`
	EvaluatedAt     time.Time      `json:"evaluated_at"`
}

// Reasoning is the structured explanation behind an assessment.
type Reasoning struct {
	Skills     string `json:"skills,omitempty"`
	Experience string `json:"experience,omitempty"`
	Location   string `json:"location,omitempty"`
	Education  string `json:"education,omitempty"`
	Overall    string `json:"overall,omitempty"`
}

// Suitable reports whether the candidate is worth enriching. Enrichment is
// restricted to suitable and potentially suitable candidates for cost control.
func (r Recommendation) Suitable() bool {
	switch r {
	case HighlySuitable, Suitable, PotentiallySuitable:
		return true
	case NotSuitable:
		return false
	default:
		return false
	}
}

// Valid reports whether the recommendation is one of the closed set.
func (r Recommendation) Valid() bool {
	switch r {
	case HighlySuitable, Suitable, PotentiallySuitable, NotSuitable:
		return true
	default:
		return false
	}
}
