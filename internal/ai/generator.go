package ai

import "context"

// Generator is the text-generation capability consumed by the pipeline.
// Implementations are assumed to be non-deterministic, rate-limited and
// occasionally failing; every call site must carry a deterministic fallback.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}
