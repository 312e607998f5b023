package alias

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolver_Resolve_defaults(t *testing.T) {
	r, err := NewResolver("", nil)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}

	tests := []struct {
		name  string
		field string
		raw   string
		want  string
	}{
		{name: "known alias", field: "funding", raw: "elixir", want: "ELIXIR Node"},
		{name: "case-insensitive", field: "funding", raw: "ELIXIR", want: "ELIXIR Node"},
		{name: "surrounding whitespace", field: "funding", raw: "  elixir  ", want: "ELIXIR Node"},
		{name: "unknown value passes through trimmed", field: "funding", raw: "  Wellcome Trust ", want: "Wellcome Trust"},
		{name: "unknown field passes through", field: "nope", raw: "anything", want: "anything"},
		{name: "country drift", field: "employment_country", raw: "Czechia", want: "Czech Republic"},
		{name: "slug-level alias", field: "quality-course_rating", raw: "very-good-4", want: "very-good"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.field, tt.raw); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.field, tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolver_Resolve_deterministic(t *testing.T) {
	r, err := NewResolver("", nil)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	first := r.Resolve("funding", "eu")
	for i := 0; i < 100; i++ {
		if got := r.Resolve("funding", "eu"); got != first {
			t.Fatalf("Resolve() not deterministic: got %q then %q", first, got)
		}
	}
}

func TestResolver_ResolveList(t *testing.T) {
	r, err := NewResolver("", nil)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	got := r.ResolveList("funding", []string{"elixir", "Wellcome Trust", "eu"})
	want := []string{"ELIXIR Node", "Wellcome Trust", "EU funds"}
	if len(got) != len(want) {
		t.Fatalf("ResolveList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolveList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing alias file failed: %v", err)
	}
	return path
}

func TestNewResolver_fileOverridesBuiltin(t *testing.T) {
	path := writeAliasFile(t, "field,value,alias\nfunding,Local Grant,elixir\nfunding,Wellcome,wt\n")
	r, err := NewResolver(path, nil)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	if got := r.Resolve("funding", "elixir"); got != "Local Grant" {
		t.Errorf("file override lost: Resolve() = %q, want %q", got, "Local Grant")
	}
	if got := r.Resolve("funding", "wt"); got != "Wellcome" {
		t.Errorf("file-only entry lost: Resolve() = %q, want %q", got, "Wellcome")
	}
	// untouched defaults survive
	if got := r.Resolve("funding", "eu"); got != "EU funds" {
		t.Errorf("default lost: Resolve() = %q, want %q", got, "EU funds")
	}
}

func TestNewResolver_conflictingDuplicatesFatal(t *testing.T) {
	path := writeAliasFile(t, "field,value,alias\nfunding,EU funds,eu\nfunding,European funds,eu\n")
	if _, err := NewResolver(path, nil); err == nil {
		t.Fatal("NewResolver() expected error on conflicting duplicates, got nil")
	} else if !strings.Contains(err.Error(), "maps to both") {
		t.Errorf("NewResolver() error = %v, want conflict report", err)
	}
}

func TestNewResolver_identicalDuplicatesAllowed(t *testing.T) {
	path := writeAliasFile(t, "field,value,alias\nfunding,EU funds,eu\nfunding,EU funds,eu\n")
	if _, err := NewResolver(path, nil); err != nil {
		t.Fatalf("NewResolver() failed on identical duplicates: %v", err)
	}
}

func TestNewResolver_missingFileUsesDefaults(t *testing.T) {
	r, err := NewResolver(filepath.Join(t.TempDir(), "nope.csv"), nil)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	if got := r.Resolve("funding", "elixir"); got != "ELIXIR Node" {
		t.Errorf("Resolve() = %q, want %q", got, "ELIXIR Node")
	}
}
