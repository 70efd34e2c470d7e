package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrefersFileOverInlineValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	secret, err := Load(Source{Name: "api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("expected trimmed file content, got %q", secret)
	}
}

func TestLoadFallsBackToInlineValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: " inline "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline" {
		t.Fatalf("expected inline value, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
	}{
		{name: "nothing configured", src: Source{Name: "api key"}},
		{name: "missing file", src: Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")}},
		{name: "empty file", src: Source{Name: "api key", File: writeEmpty(t)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.src); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}
	return path
}
