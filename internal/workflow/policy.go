package workflow

import (
	"context"
	"strconv"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sourcingkit/sourcer/internal/ai"
)

// Action is what the orchestrator does between stages when a run is not
// progressing cleanly.
type Action string

const (
	ActionContinue Action = "CONTINUE"
	ActionRetry    Action = "RETRY"
	ActionAdjust   Action = "ADJUST"
	ActionEscalate Action = "ESCALATE"
	ActionComplete Action = "COMPLETE"
)

// PolicyInput is the run snapshot a decision is based on.
type PolicyInput struct {
	Stage       Stage
	Found       int
	Suitable    int
	Target      int
	RetryCount  int
	MaxRetries  int
	ErrorCount  int
	SuccessRate float64
}

// Decider picks the next action for a struggling run. The chosen action is
// always one of the five enumerated options and is applied deterministically
// once chosen.
type Decider interface {
	NextAction(ctx context.Context, in PolicyInput) Action
}

//go:embed prompt_decision.md
var decisionPromptTemplate string

// AIDecider asks the text-generation capability to pick the next action and
// falls back to HeuristicAction when the answer is unusable.
type AIDecider struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewAIDecider(generator ai.Generator, logger *zap.Logger) *AIDecider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIDecider{generator: generator, logger: logger}
}

func (d *AIDecider) NextAction(ctx context.Context, in PolicyInput) Action {
	if d.generator == nil {
		return HeuristicAction(in)
	}

	prompt := buildDecisionPrompt(in)

	raw, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		d.logger.Warn("decision generation failed, using heuristic", zap.Error(err))
		return HeuristicAction(in)
	}

	action, ok := parseAction(raw)
	if !ok {
		d.logger.Warn("decision response not parseable, using heuristic",
			zap.String("response", raw),
		)
		return HeuristicAction(in)
	}

	return action
}

// HeuristicDecider always applies the deterministic policy.
type HeuristicDecider struct{}

func (HeuristicDecider) NextAction(_ context.Context, in PolicyInput) Action {
	return HeuristicAction(in)
}

// HeuristicAction is the deterministic fallback policy:
// exhausted retry budget completes when any candidates exist, escalates
// otherwise; an empty search retries once then broadens; zero suitable
// candidates broadens; anything else continues.
func HeuristicAction(in PolicyInput) Action {
	if in.RetryCount >= in.MaxRetries {
		if in.Found > 0 {
			return ActionComplete
		}
		return ActionEscalate
	}

	if in.Found == 0 {
		if in.RetryCount == 0 {
			return ActionRetry
		}
		return ActionAdjust
	}

	if in.Suitable == 0 {
		return ActionAdjust
	}

	return ActionContinue
}

func buildDecisionPrompt(in PolicyInput) string {
	replacer := strings.NewReplacer(
		"{{STAGE}}", string(in.Stage),
		"{{FOUND}}", strconv.Itoa(in.Found),
		"{{SUITABLE}}", strconv.Itoa(in.Suitable),
		"{{TARGET}}", strconv.Itoa(in.Target),
		"{{RETRY_COUNT}}", strconv.Itoa(in.RetryCount),
		"{{MAX_RETRIES}}", strconv.Itoa(in.MaxRetries),
		"{{ERROR_COUNT}}", strconv.Itoa(in.ErrorCount),
	)
	return replacer.Replace(decisionPromptTemplate)
}

func parseAction(raw string) (Action, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "`\"'.")

	switch Action(cleaned) {
	case ActionContinue, ActionRetry, ActionAdjust, ActionEscalate, ActionComplete:
		return Action(cleaned), true
	}

	// Tolerate a one-word answer wrapped in prose.
	for _, action := range []Action{ActionAdjust, ActionRetry, ActionEscalate, ActionComplete, ActionContinue} {
		if strings.Contains(cleaned, string(action)) {
			return action, true
		}
	}

	return "", false
}
