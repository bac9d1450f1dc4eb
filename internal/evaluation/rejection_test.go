package evaluation

import (
	"reflect"
	"testing"
)

func TestTopRejectionReasons(t *testing.T) {
	riskLists := [][]string{
		{"skill_gap", "location_mismatch"},
		{"skill_gap", "experience_concerns"},
		{"skill_gap"},
	}

	got := TopRejectionReasons(riskLists, 2)
	want := []RejectionReason{
		{Reason: "skill_gap", Count: 3},
		{Reason: "location_mismatch", Count: 1},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTopRejectionReasonsTieBreakByFirstSeen(t *testing.T) {
	riskLists := [][]string{
		{"beta", "alpha"},
		{"alpha", "beta"},
	}

	got := TopRejectionReasons(riskLists, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 reasons, got %d", len(got))
	}
	if got[0].Reason != "beta" || got[1].Reason != "alpha" {
		t.Fatalf("equal counts must keep first-seen order, got %+v", got)
	}
}

func TestTopRejectionReasonsEmpty(t *testing.T) {
	if got := TopRejectionReasons(nil, 5); len(got) != 0 {
		t.Fatalf("expected no reasons, got %+v", got)
	}
}
