package workflow

import (
	"time"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

// Stage identifies one phase of a sourcing run.
type Stage string

const (
	StageSearching  Stage = "searching"
	StageEvaluating Stage = "evaluating"
	StageEnriching  Stage = "enriching"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// AgentStatus tracks one sub-agent of the run.
type AgentStatus string

const (
	AgentPending   AgentStatus = "pending"
	AgentRunning   AgentStatus = "running"
	AgentCompleted AgentStatus = "completed"
	AgentError     AgentStatus = "error"
)

// ErrorEntry records an error scoped to the stage where it happened.
type ErrorEntry struct {
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// State is one in-flight sourcing run. It is owned and mutated exclusively by
// the Orchestrator; mutations are applied only after a stage fully resolves.
type State struct {
	RequestID            string  `json:"request_id"`
	JobDescription       string  `json:"job_description"`
	TargetCandidateCount int     `json:"target_candidate_count"`
	CurrentStage         Stage   `json:"current_stage"`
	StagesCompleted      []Stage `json:"stages_completed"`

	Found     *candidate.List `json:"found"`
	Evaluated *candidate.List `json:"evaluated"`
	Enriched  *candidate.List `json:"enriched"`
	Final     *candidate.List `json:"final"`

	SearchAgentStatus     AgentStatus `json:"search_agent_status"`
	EvaluationAgentStatus AgentStatus `json:"evaluation_agent_status"`
	ScrapingAgentStatus   AgentStatus `json:"scraping_agent_status"`

	TotalFound    int     `json:"total_found"`
	TotalSuitable int     `json:"total_suitable"`
	TotalEnriched int     `json:"total_enriched"`
	SuccessRate   float64 `json:"success_rate"`

	Errors   []ErrorEntry `json:"errors,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	LastUpdated time.Time  `json:"last_updated"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewState creates a run with all counters zero and the searching stage
// active.
func NewState(requestID, jobDescription string, target int) *State {
	now := time.Now().UTC()

	return &State{
		RequestID:            requestID,
		JobDescription:       jobDescription,
		TargetCandidateCount: target,
		CurrentStage:         StageSearching,
		Found:                &candidate.List{},
		Evaluated:            &candidate.List{},
		Enriched:             &candidate.List{},
		Final:                &candidate.List{},

		SearchAgentStatus:     AgentPending,
		EvaluationAgentStatus: AgentPending,
		ScrapingAgentStatus:   AgentPending,

		StartedAt:   now,
		LastUpdated: now,
	}
}

// CompleteStage appends the stage to the completed list (duplicates are
// skipped) and bumps the update timestamp.
func (s *State) CompleteStage(stage Stage) {
	for _, done := range s.StagesCompleted {
		if done == stage {
			s.touch()
			return
		}
	}
	s.StagesCompleted = append(s.StagesCompleted, stage)
	s.touch()
}

// EnterStage moves the run into the given stage.
func (s *State) EnterStage(stage Stage) {
	s.CurrentStage = stage
	s.touch()
}

// RecordError appends a stage-scoped error entry.
func (s *State) RecordError(stage Stage, message string) {
	s.Errors = append(s.Errors, ErrorEntry{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	s.touch()
}

// RecordWarning appends a warning without failing the run.
func (s *State) RecordWarning(message string) {
	s.Warnings = append(s.Warnings, message)
	s.touch()
}

// Recompute derives all aggregate counters from the candidate lists. It is
// recomputation, not accumulation, so calling it twice with unchanged lists
// yields identical values.
func (s *State) Recompute() {
	s.TotalFound = s.Found.Len()
	s.TotalEnriched = s.Enriched.Len()

	suitable := 0
	for _, c := range s.Evaluated.Items {
		if c.SuitabilityStatus.Suitable() {
			suitable++
		}
	}
	s.TotalSuitable = suitable

	if s.TotalFound > 0 {
		s.SuccessRate = float64(s.TotalSuitable) / float64(s.TotalFound)
	} else {
		s.SuccessRate = 0
	}

	s.touch()
}

// Terminal reports whether the run can no longer progress.
func (s *State) Terminal() bool {
	switch s.CurrentStage {
	case StageCompleted, StageError:
		return true
	case StageSearching, StageEvaluating, StageEnriching:
		return false
	default:
		return false
	}
}

// Complete marks the run finished.
func (s *State) Complete() {
	s.EnterStage(StageCompleted)
	s.CompleteStage(StageCompleted)
	now := time.Now().UTC()
	s.CompletedAt = &now
}

// Fail moves the run into the terminal error stage.
func (s *State) Fail(stage Stage, message string) {
	s.RecordError(stage, message)
	s.EnterStage(StageError)
}

func (s *State) touch() {
	s.LastUpdated = time.Now().UTC()
}
