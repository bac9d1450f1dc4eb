package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sourcingkit/sourcer/internal/candidate"
	"github.com/sourcingkit/sourcer/internal/evaluation"
	"github.com/sourcingkit/sourcer/internal/linkedin"
)

// Searcher finds candidates on the networking platform.
type Searcher interface {
	Search(ctx context.Context, params *linkedin.SearchParams) (*candidate.List, error)
}

// Enricher fetches the detailed profile for a candidate.
type Enricher interface {
	GetProfile(ctx context.Context, externalID string) (*linkedin.EnrichedProfile, error)
}

// Evaluator scores and categorizes a candidate batch.
type Evaluator interface {
	Evaluate(ctx context.Context, candidates []*candidate.Record, jobRequirements string, criteria *evaluation.Criteria, project *evaluation.ProjectMetadata) *evaluation.Response
}

// CandidateStore persists candidates, upserting on the profile key.
type CandidateStore interface {
	Save(ctx context.Context, rec *candidate.Record) error
}

// Request describes one sourcing run.
type Request struct {
	RequestID            string
	JobDescription       string
	SearchParams         *linkedin.SearchParams
	TargetCandidateCount int
	Criteria             *evaluation.Criteria
	Project              *evaluation.ProjectMetadata
}

// Orchestrator owns a sourcing run end to end: search, evaluate, enrich,
// complete, with a retry/adjust policy applied between stages.
type Orchestrator struct {
	searcher   Searcher
	evaluator  Evaluator
	enricher   Enricher
	store      CandidateStore
	decider    Decider
	logger     *zap.Logger
	maxRetries int
}

const defaultMaxRetries = 3

// Deps aggregates the collaborators injected into an Orchestrator. Enricher,
// store and decider are optional: a nil enricher skips enrichment bodies, a
// nil store skips persistence and a nil decider falls back to the heuristic
// policy.
type Deps struct {
	Searcher  Searcher
	Evaluator Evaluator
	Enricher  Enricher
	Store     CandidateStore
	Decider   Decider
	Logger    *zap.Logger
}

func NewOrchestrator(deps Deps, maxRetries int) *Orchestrator {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	decider := deps.Decider
	if decider == nil {
		decider = HeuristicDecider{}
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		searcher:   deps.Searcher,
		evaluator:  deps.Evaluator,
		enricher:   deps.Enricher,
		store:      deps.Store,
		decider:    decider,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Run executes the workflow until it reaches a terminal stage and returns the
// final state. Failures never surface as errors; they are recorded on the
// state, which ends in the error stage only when unrecoverable.
func (o *Orchestrator) Run(ctx context.Context, req *Request) *State {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	state := NewState(req.RequestID, req.JobDescription, req.TargetCandidateCount)
	logger := o.logger.With(zap.String("request_id", req.RequestID))

	params := &linkedin.SearchParams{}
	if req.SearchParams != nil {
		copied := *req.SearchParams
		params = &copied
	}

	var resp *evaluation.Response
	retries := 0

	for {
		// --- searching ---
		state.EnterStage(StageSearching)
		state.SearchAgentStatus = AgentRunning

		found, err := o.searcher.Search(ctx, params)
		if err != nil {
			state.RecordError(StageSearching, fmt.Sprintf("search: %v", err))
			logger.Warn("search failed", zap.Error(err))
		} else {
			dropped := state.Found.Append(found.Items...)
			if len(dropped) > 0 {
				logger.Debug("dropped duplicate candidates", zap.Strings("external_ids", dropped))
			}
		}
		state.Recompute()

		if state.TotalFound == 0 {
			action := o.decide(ctx, state, retries)
			logger.Info("no candidates found",
				zap.String("action", string(action)),
				zap.Int("retries", retries),
			)

			switch action {
			case ActionAdjust:
				params.Broaden()
				state.RecordWarning("broadened search criteria after empty search")
				retries++
				continue
			case ActionRetry, ActionContinue:
				retries++
				continue
			case ActionEscalate:
				state.SearchAgentStatus = AgentError
				state.Fail(StageSearching, "no candidates found and retry budget exhausted")
				return state
			case ActionComplete:
				state.RecordWarning("completing with zero candidates found")
				state.Complete()
				return state
			}
		}

		state.SearchAgentStatus = AgentCompleted
		state.CompleteStage(StageSearching)

		// --- evaluating ---
		state.EnterStage(StageEvaluating)
		state.EvaluationAgentStatus = AgentRunning

		resp = o.evaluator.Evaluate(ctx, state.Found.Items, req.JobDescription, req.Criteria, req.Project)
		if !resp.Success {
			state.EvaluationAgentStatus = AgentError
			state.Fail(StageEvaluating, resp.Error)
			return state
		}

		state.Evaluated = &candidate.List{Items: resp.Candidates}
		state.Recompute()

		if state.TotalSuitable == 0 {
			action := o.decide(ctx, state, retries)
			logger.Info("no suitable candidates after evaluation",
				zap.String("action", string(action)),
				zap.Int("retries", retries),
			)

			switch action {
			case ActionAdjust, ActionRetry:
				if action == ActionAdjust {
					params.Broaden()
					state.RecordWarning("broadened search criteria after evaluation yielded no suitable candidates")
				}
				retries++
				continue
			case ActionEscalate:
				state.EvaluationAgentStatus = AgentError
				state.Fail(StageEvaluating, "evaluation yielded no suitable candidates")
				return state
			case ActionComplete, ActionContinue:
				state.RecordWarning("completing without suitable candidates")
				state.EvaluationAgentStatus = AgentCompleted
				state.CompleteStage(StageEvaluating)
				state.Complete()
				return state
			}
		}

		state.EvaluationAgentStatus = AgentCompleted
		state.CompleteStage(StageEvaluating)
		break
	}

	// --- enriching ---
	// Unconditionally transitions to completed afterwards: enrichment
	// failures are partial, never fatal.
	state.EnterStage(StageEnriching)
	state.ScrapingAgentStatus = AgentRunning

	o.enrich(ctx, state, resp.RecommendedForScraping, logger)

	state.ScrapingAgentStatus = AgentCompleted
	state.CompleteStage(StageEnriching)
	state.Recompute()

	// --- completed ---
	o.finalize(ctx, state, logger)
	state.Complete()
	state.Recompute()

	logger.Info("workflow completed",
		zap.Int("total_found", state.TotalFound),
		zap.Int("total_suitable", state.TotalSuitable),
		zap.Int("total_enriched", state.TotalEnriched),
		zap.Float64("success_rate", state.SuccessRate),
	)

	return state
}

// decide consults the policy. Past the retry budget the decider is bypassed
// so a misbehaving external judgment cannot loop the run forever.
func (o *Orchestrator) decide(ctx context.Context, state *State, retries int) Action {
	in := PolicyInput{
		Stage:       state.CurrentStage,
		Found:       state.TotalFound,
		Suitable:    state.TotalSuitable,
		Target:      state.TargetCandidateCount,
		RetryCount:  retries,
		MaxRetries:  o.maxRetries,
		ErrorCount:  len(state.Errors),
		SuccessRate: state.SuccessRate,
	}

	if retries >= o.maxRetries {
		return HeuristicAction(in)
	}

	return o.decider.NextAction(ctx, in)
}

// enrich fetches detailed profiles for the scraping shortlist. Only suitable
// candidates are ever on the shortlist, which keeps enrichment cost bounded.
func (o *Orchestrator) enrich(ctx context.Context, state *State, shortlist []string, logger *zap.Logger) {
	if o.enricher == nil {
		if len(shortlist) > 0 {
			state.RecordWarning("enricher not configured, skipping profile enrichment")
		}
		return
	}

	for _, externalID := range shortlist {
		rec := state.Evaluated.FindByExternalID(externalID)
		if rec == nil {
			continue
		}

		profile, err := o.enricher.GetProfile(ctx, externalID)
		if err != nil {
			state.RecordWarning(fmt.Sprintf("enrich %s: %v", externalID, err))
			logger.Warn("profile enrichment failed",
				zap.String("candidate_id", externalID),
				zap.Error(err),
			)
			continue
		}

		enriched := *rec
		enriched.About = profile.About
		enriched.Positions = profile.Positions
		if profile.Email != "" {
			enriched.Email = profile.Email
		}
		if len(profile.Skills) > 0 {
			enriched.Skills = mergeSkills(enriched.Skills, profile.Skills)
		}
		enriched.Enriched = true

		state.Enriched.Append(&enriched)
	}
}

// finalize selects the outreach-ready candidates and persists everything.
func (o *Orchestrator) finalize(ctx context.Context, state *State, logger *zap.Logger) {
	for _, rec := range state.Evaluated.Items {
		if !rec.SuitabilityStatus.Suitable() {
			continue
		}

		final := rec
		if enriched := state.Enriched.FindByExternalID(rec.ExternalID); enriched != nil {
			final = enriched
		}
		state.Final.Append(final)
	}

	if o.store == nil {
		return
	}

	for _, rec := range state.Final.Items {
		if err := o.store.Save(ctx, rec); err != nil {
			state.RecordWarning(fmt.Sprintf("save %s: %v", rec.ExternalID, err))
			logger.Warn("candidate save failed",
				zap.String("candidate_id", rec.ExternalID),
				zap.Error(err),
			)
		}
	}
}

func mergeSkills(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	merged := make([]string, 0, len(base)+len(extra))

	for _, s := range base {
		seen[s] = true
		merged = append(merged, s)
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			merged = append(merged, s)
		}
	}

	return merged
}
