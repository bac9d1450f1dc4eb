package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

// ErrEmptyCandidateList is returned when evaluation is requested for zero candidates.
var ErrEmptyCandidateList = errors.New("candidate list is empty")

// ErrorKind classifies a failed evaluation response.
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindInputValidation ErrorKind = "input_validation"
	ErrorKindUnknown         ErrorKind = "unknown"
)

const (
	defaultConcurrency = 4
	rejectionTopN      = 5
	summaryStrengths   = 3
	summaryConcerns    = 2
)

// ProjectMetadata is pass-through context attached to an evaluation run.
type ProjectMetadata struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Campaign int    `json:"campaign,omitempty"`
}

// Criteria optionally overrides the default evaluation parameters.
type Criteria struct {
	Thresholds  *Thresholds
	Weights     *Weights
	Concurrency int
}

// Summary is the concise per-candidate entry in a categorized list.
type Summary struct {
	ExternalID     string                   `json:"external_id"`
	Name           string                   `json:"name,omitempty"`
	Title          string                   `json:"title,omitempty"`
	Score          float64                  `json:"score"`
	Recommendation candidate.Recommendation `json:"recommendation"`
	NextAction     candidate.NextAction     `json:"next_action"`
	Priority       candidate.Priority       `json:"priority"`
	TopStrengths   []string                 `json:"top_strengths,omitempty"`
	TopConcerns    []string                 `json:"top_concerns,omitempty"`
	EvaluationID   string                   `json:"evaluation_id"`
	Rationale      string                   `json:"rationale,omitempty"`
}

// Counts summarizes category sizes.
type Counts struct {
	Suitable            int `json:"suitable"`
	PotentiallySuitable int `json:"potentially_suitable"`
	NotSuitable         int `json:"not_suitable"`
	Total               int `json:"total"`
}

// Response is the full outcome of one batch evaluation. Failures are always
// reported through Success/Error rather than propagated.
type Response struct {
	Success                bool                `json:"success"`
	Error                  string              `json:"error,omitempty"`
	ErrorKind              ErrorKind           `json:"error_kind,omitempty"`
	Project                *ProjectMetadata    `json:"project,omitempty"`
	Counts                 Counts              `json:"counts"`
	Suitable               []*Summary          `json:"suitable"`
	PotentiallySuitable    []*Summary          `json:"potentially_suitable"`
	NotSuitable            []*Summary          `json:"not_suitable"`
	Candidates             []*candidate.Record `json:"candidates,omitempty"`
	RecommendedForScraping []string            `json:"recommended_for_scraping,omitempty"`
	RejectionSummary       []RejectionReason   `json:"rejection_summary,omitempty"`
}

// Evaluator evaluates candidate batches against a job description.
type Evaluator struct {
	analyzer    Analyzer
	narratives  *NarrativeGenerator
	logger      *zap.Logger
	thresholds  Thresholds
	weights     Weights
	concurrency int
}

func NewEvaluator(analyzer Analyzer, narratives *NarrativeGenerator, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		analyzer:    analyzer,
		narratives:  narratives,
		logger:      logger,
		thresholds:  DefaultThresholds(),
		weights:     DefaultWeights(),
		concurrency: defaultConcurrency,
	}
}

type evaluated struct {
	record     *candidate.Record
	assessment *candidate.Assessment
	inputIndex int
}

// Evaluate runs the full evaluation pipeline for a batch of candidates. It
// never returns an error and never panics past this boundary: validation
// problems and unexpected failures come back as a structured error response
// carrying the project metadata.
func (e *Evaluator) Evaluate(ctx context.Context, candidates []*candidate.Record, jobRequirements string, criteria *Criteria, project *ProjectMetadata) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation batch failed", zap.Any("panic", r))
			resp = errorResponse(ErrorKindUnknown, fmt.Sprintf("evaluation failed: %v", r), project)
		}
	}()

	if len(candidates) == 0 {
		return errorResponse(ErrorKindInputValidation, ErrEmptyCandidateList.Error(), project)
	}
	if strings.TrimSpace(jobRequirements) == "" {
		return errorResponse(ErrorKindInputValidation, ErrMissingJobRequirements.Error(), project)
	}

	thresholds, weights, concurrency := e.params(criteria)
	projectID := ""
	if project != nil {
		projectID = project.ID
	}

	results := make([]*evaluated, len(candidates))

	// Scoring calls may run in parallel; the categorized output below is
	// re-sorted deterministically so it never depends on completion order.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, rec := range candidates {
		group.Go(func() error {
			result, err := e.evaluateOne(groupCtx, rec, jobRequirements, thresholds, weights, projectID)
			if err != nil {
				// One candidate's failure is logged and excluded, not
				// fatal to the batch.
				e.logger.Warn("candidate evaluation failed, excluding from batch",
					zap.Int("input_index", i),
					zap.Error(err),
				)
				return nil
			}
			result.inputIndex = i
			results[i] = result
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	if err := group.Wait(); err != nil {
		return errorResponse(ErrorKindUnknown, err.Error(), project)
	}

	return e.assemble(results, project)
}

func (e *Evaluator) evaluateOne(ctx context.Context, rec *candidate.Record, jobRequirements string, thresholds Thresholds, weights Weights, projectID string) (result *evaluated, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("candidate evaluation panicked: %v", r)
		}
	}()

	if rec == nil {
		return nil, errors.New("candidate record is nil")
	}

	analysis, analyzeErr := e.analyze(ctx, rec, jobRequirements)
	if analyzeErr != nil {
		return nil, analyzeErr
	}

	overall := analysis.Overall(weights)
	factors := DeriveDecisionFactors(analysis, overall)
	risks := DeriveRiskFactors(analysis, overall)
	decision := Decide(overall, factors, risks, thresholds)

	assessment := &candidate.Assessment{
		EvaluationID:    evaluationID(projectID, rec.ExternalID),
		OverallScore:    overall,
		Recommendation:  decision.Recommendation,
		NextAction:      decision.NextAction,
		Priority:        decision.Priority,
		DecisionFactors: factors,
		RiskFactors:     risks,
		Reasoning:       BuildReasoning(analysis, decision.Recommendation),
		EvaluatedAt:     time.Now().UTC(),
	}

	if e.narratives != nil {
		assessment.Narrative = e.narratives.Narrative(ctx, rec, jobRequirements, analysis, decision, overall)
	} else {
		assessment.Narrative = FallbackNarrative(rec, analysis, decision)
	}

	annotated := *rec
	annotated.SuitabilityStatus = decision.Recommendation
	annotated.SuitabilityScore = overall
	annotated.SuitabilityReasoning = assessment.Reasoning.Overall
	annotated.EvaluationID = assessment.EvaluationID
	annotated.Priority = decision.Priority
	annotated.NextAction = decision.NextAction

	return &evaluated{record: &annotated, assessment: assessment}, nil
}

// analyze runs the AI-backed analyzer and falls back to the deterministic
// local scorer when the external call fails for any reason.
func (e *Evaluator) analyze(ctx context.Context, rec *candidate.Record, jobRequirements string) (*MatchAnalysis, error) {
	if e.analyzer != nil {
		analysis, err := e.analyzer.Analyze(ctx, rec, jobRequirements)
		if err == nil {
			return analysis, nil
		}

		if errors.Is(err, ErrMissingJobRequirements) {
			return nil, err
		}

		e.logger.Warn("match analysis failed, using local scorer",
			zap.String("candidate_id", rec.ExternalID),
			zap.Error(err),
		)
	}

	return AnalyzeLocally(rec, jobRequirements)
}

func (e *Evaluator) assemble(results []*evaluated, project *ProjectMetadata) *Response {
	resp := &Response{
		Success:             true,
		Project:             project,
		Suitable:            []*Summary{},
		PotentiallySuitable: []*Summary{},
		NotSuitable:         []*Summary{},
	}

	var categorized []*evaluated
	for _, result := range results {
		if result != nil {
			categorized = append(categorized, result)
		}
	}

	// Descending by score; ties keep input order. Stable sort on the
	// input-ordered slice gives first-seen-wins for equal scores.
	sort.SliceStable(categorized, func(i, j int) bool {
		return categorized[i].assessment.OverallScore > categorized[j].assessment.OverallScore
	})

	var rejectedRisks [][]string
	for _, result := range categorized {
		summary := summarize(result)

		switch result.assessment.Recommendation {
		case candidate.HighlySuitable, candidate.Suitable:
			resp.Suitable = append(resp.Suitable, summary)
		case candidate.PotentiallySuitable:
			resp.PotentiallySuitable = append(resp.PotentiallySuitable, summary)
		case candidate.NotSuitable:
			resp.NotSuitable = append(resp.NotSuitable, summary)
			rejectedRisks = append(rejectedRisks, result.assessment.RiskFactors)
		}

		if result.assessment.NextAction == candidate.ActionProfileScraping {
			resp.RecommendedForScraping = append(resp.RecommendedForScraping, result.record.ExternalID)
		}

		resp.Candidates = append(resp.Candidates, result.record)
	}

	resp.Counts = Counts{
		Suitable:            len(resp.Suitable),
		PotentiallySuitable: len(resp.PotentiallySuitable),
		NotSuitable:         len(resp.NotSuitable),
		Total:               len(categorized),
	}

	resp.RejectionSummary = TopRejectionReasons(rejectedRisks, rejectionTopN)

	return resp
}

func (e *Evaluator) params(criteria *Criteria) (Thresholds, Weights, int) {
	thresholds := e.thresholds
	weights := e.weights
	concurrency := e.concurrency

	if criteria != nil {
		if criteria.Thresholds != nil {
			thresholds = *criteria.Thresholds
		}
		if criteria.Weights != nil {
			weights = *criteria.Weights
		}
		if criteria.Concurrency > 0 {
			concurrency = criteria.Concurrency
		}
	}

	return thresholds, weights, concurrency
}

func summarize(result *evaluated) *Summary {
	assessment := result.assessment

	return &Summary{
		ExternalID:     result.record.ExternalID,
		Name:           result.record.Name,
		Title:          result.record.Title,
		Score:          assessment.OverallScore,
		Recommendation: assessment.Recommendation,
		NextAction:     assessment.NextAction,
		Priority:       assessment.Priority,
		TopStrengths:   headOf(assessment.DecisionFactors, summaryStrengths),
		TopConcerns:    headOf(assessment.RiskFactors, summaryConcerns),
		EvaluationID:   assessment.EvaluationID,
		Rationale:      assessment.Reasoning.Overall,
	}
}

// evaluationID composes a collision-free identifier from the project and
// candidate plus a random component.
func evaluationID(projectID, externalID string) string {
	if projectID == "" {
		projectID = "default"
	}
	return fmt.Sprintf("proj-%s-cand-%s-%s", projectID, externalID, uuid.NewString())
}

func errorResponse(kind ErrorKind, message string, project *ProjectMetadata) *Response {
	return &Response{
		Success:             false,
		Error:               message,
		ErrorKind:           kind,
		Project:             project,
		Suitable:            []*Summary{},
		PotentiallySuitable: []*Summary{},
		NotSuitable:         []*Summary{},
	}
}

func headOf(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
