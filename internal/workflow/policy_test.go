package workflow

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestHeuristicAction(t *testing.T) {
	cases := []struct {
		name string
		in   PolicyInput
		want Action
	}{
		{"empty search first attempt", PolicyInput{Found: 0, RetryCount: 0, MaxRetries: 3}, ActionRetry},
		{"empty search after retry", PolicyInput{Found: 0, RetryCount: 1, MaxRetries: 3}, ActionAdjust},
		{"budget exhausted with nothing", PolicyInput{Found: 0, RetryCount: 3, MaxRetries: 3}, ActionEscalate},
		{"budget exhausted with results", PolicyInput{Found: 5, RetryCount: 3, MaxRetries: 3}, ActionComplete},
		{"no suitable candidates", PolicyInput{Found: 5, Suitable: 0, RetryCount: 1, MaxRetries: 3}, ActionAdjust},
		{"healthy run", PolicyInput{Found: 5, Suitable: 3, RetryCount: 0, MaxRetries: 3}, ActionContinue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HeuristicAction(tc.in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestAIDeciderParsesResponse(t *testing.T) {
	gen := &stubGenerator{response: "ADJUST"}
	d := NewAIDecider(gen, zap.NewNop())

	got := d.NextAction(context.Background(), PolicyInput{Found: 5, MaxRetries: 3})
	if got != ActionAdjust {
		t.Fatalf("expected ADJUST, got %s", got)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generation call, got %d", gen.calls)
	}
}

func TestAIDeciderFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	d := NewAIDecider(gen, zap.NewNop())

	// Heuristic: found candidates, none suitable yet, budget remaining.
	got := d.NextAction(context.Background(), PolicyInput{Found: 5, Suitable: 0, RetryCount: 1, MaxRetries: 3})
	if got != ActionAdjust {
		t.Fatalf("expected heuristic ADJUST on generator error, got %s", got)
	}
}

func TestAIDeciderFallsBackOnGarbage(t *testing.T) {
	gen := &stubGenerator{response: "I would suggest reconsidering the pipeline."}
	d := NewAIDecider(gen, zap.NewNop())

	got := d.NextAction(context.Background(), PolicyInput{Found: 5, Suitable: 3, MaxRetries: 3})
	if got != ActionContinue {
		t.Fatalf("expected heuristic CONTINUE on unparseable response, got %s", got)
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		raw  string
		want Action
		ok   bool
	}{
		{"RETRY", ActionRetry, true},
		{"  continue  ", ActionContinue, true},
		{"`ESCALATE`", ActionEscalate, true},
		{"The right call here is ADJUST.", ActionAdjust, true},
		{"maybe", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := parseAction(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("parseAction(%q) = %s, %v; want %s, %v", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}
