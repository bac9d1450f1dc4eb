package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sourcingkit/sourcer/internal/ai"
	"github.com/sourcingkit/sourcer/internal/candidate"
	"github.com/sourcingkit/sourcer/internal/util"
)

// Analyzer computes a MatchAnalysis for one candidate against one job
// description.
type Analyzer interface {
	Analyze(ctx context.Context, rec *candidate.Record, jobRequirements string) (*MatchAnalysis, error)
}

//go:embed prompt_match.md
var matchPromptTemplate string

const defaultMaxLogLength = 200

// AIAnalyzer delegates match analysis to the text-generation capability.
// Callers fall back to AnalyzeLocally when it fails.
type AIAnalyzer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewAIAnalyzer(generator ai.Generator, logger *zap.Logger, maxLogLength int) *AIAnalyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AIAnalyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *AIAnalyzer) Analyze(ctx context.Context, rec *candidate.Record, jobRequirements string) (*MatchAnalysis, error) {
	if rec == nil {
		return nil, fmt.Errorf("candidate record is required")
	}
	if strings.TrimSpace(jobRequirements) == "" {
		return nil, ErrMissingJobRequirements
	}

	candidateJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := buildMatchPrompt(string(candidateJSON), jobRequirements)

	a.logger.Debug("match analysis request",
		zap.String("candidate_id", rec.ExternalID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("match analysis response",
		zap.String("candidate_id", rec.ExternalID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseMatchResponse(raw)
}

func buildMatchPrompt(candidateJSON, jobRequirements string) string {
	template := matchPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate:\n{{CANDIDATE_JSON}}\n\nJob requirements:\n{{JOB_REQUIREMENTS}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CANDIDATE_JSON}}", candidateJSON)
	prompt = strings.ReplaceAll(prompt, "{{JOB_REQUIREMENTS}}", jobRequirements)
	return prompt
}

func parseMatchResponse(raw string) (*MatchAnalysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse match response: %w", err)
	}

	analysis := &MatchAnalysis{
		SkillsScore:     coerceScore(data["skills_score"]),
		ExperienceScore: coerceScore(data["experience_score"]),
		LocationScore:   coerceScore(data["location_score"]),
		EducationScore:  coerceScore(data["education_score"]),
		MatchedSkills:   coerceStringSlice(data["matched_skills"]),
		MissingSkills:   coerceStringSlice(data["missing_skills"]),
		SkillsNote:      coerceString(data["skills_note"]),
		ExperienceNote:  coerceString(data["experience_note"]),
		LocationNote:    coerceString(data["location_note"]),
		EducationNote:   coerceString(data["education_note"]),
	}

	return analysis, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceScore(v any) float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	return clampScore(f)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
