package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFieldsSkipsBlanks(t *testing.T) {
	fields := StringFields(
		StringField{Key: "provider", Value: "gemini"},
		StringField{Key: "  ", Value: "dropped"},
		StringField{Key: "model", Value: "   "},
		StringField{Key: " stage ", Value: " searching "},
	)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields[0].Key != "provider" || fields[1].Key != "stage" {
		t.Fatalf("unexpected keys: %v, %v", fields[0].Key, fields[1].Key)
	}
	if fields[1].String != "searching" {
		t.Fatalf("expected trimmed value, got %q", fields[1].String)
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	got := WithFields(nil, zap.String("k", "v"))
	if got == nil {
		t.Fatal("expected a usable logger")
	}
	// Must not panic on use.
	got.Debug("noop")
}

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		for _, debug := range []bool{true, false} {
			l, err := New(json, debug)
			if err != nil {
				t.Fatalf("New(%v, %v): %v", json, debug, err)
			}
			if l == nil {
				t.Fatalf("New(%v, %v) returned nil logger", json, debug)
			}
		}
	}
}
