package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecretFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}
	return path
}

func TestLoadFromValue(t *testing.T) {
	got, err := Load(Source{Name: "token", Value: "  s3cret  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestLoadFileTakesPrecedence(t *testing.T) {
	path := writeSecretFile(t, "from-file\n")

	got, err := Load(Source{Name: "token", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file content to win, got %q", got)
	}
}

func TestLoadFromEnvPointedFile(t *testing.T) {
	path := writeSecretFile(t, "from-env-file")
	t.Setenv("TEST_SECRET_FILE", path)

	got, err := Load(Source{Name: "token", Env: "TEST_SECRET_FILE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env-file" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "token", File: filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Fatalf("error must name the secret: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeSecretFile(t, "   \n")

	_, err := Load(Source{Name: "token", File: path})
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected an empty-file error, got %v", err)
	}
}

func TestLoadUnconfigured(t *testing.T) {
	_, err := Load(Source{Name: "api key"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected a not-configured error, got %v", err)
	}
}
