package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func baseSources() Sources {
	return Sources{
		Prompt:    "Why is the sky blue?",
		Model:     "qwen2.5:latest",
		APIKey:    "key",
		Stream:    true,
		MaxTokens: 2048,
	}
}

func TestResolveRequest(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Sources)
		wantPrompt string
		wantErr    string
	}{
		{
			name:       "direct prompt",
			mutate:     func(s *Sources) {},
			wantPrompt: "Why is the sky blue?",
		},
		{
			name: "prompt trimmed",
			mutate: func(s *Sources) {
				s.Prompt = "  padded prompt \n"
			},
			wantPrompt: "padded prompt",
		},
		{
			name: "stdin prepended to prompt",
			mutate: func(s *Sources) {
				s.Stdin = "context from a pipe\n"
			},
			wantPrompt: "context from a pipe\n\nWhy is the sky blue?",
		},
		{
			name: "stdin alone is a valid prompt",
			mutate: func(s *Sources) {
				s.Prompt = ""
				s.Stdin = "just piped input"
			},
			wantPrompt: "just piped input",
		},
		{
			name: "file prompt",
			mutate: func(s *Sources) {
				s.Prompt = ""
				s.FilePrompt = "prompt from a file"
			},
			wantPrompt: "prompt from a file",
		},
		{
			name: "file and direct prompt conflict",
			mutate: func(s *Sources) {
				s.FilePrompt = "also a file prompt"
			},
			wantErr: "not both",
		},
		{
			name: "empty prompt",
			mutate: func(s *Sources) {
				s.Prompt = "   "
			},
			wantErr: "no prompt given",
		},
		{
			name: "non-positive budget",
			mutate: func(s *Sources) {
				s.MaxTokens = 0
			},
			wantErr: "must be positive",
		},
		{
			name: "prompt over budget",
			mutate: func(s *Sources) {
				s.Prompt = strings.Repeat("word ", 100)
				s.MaxTokens = 10
			},
			wantErr: "prompt too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := baseSources()
			tt.mutate(&src)

			req, err := ResolveRequest(src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ResolveRequest() err=%v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveRequest() err=%v", err)
			}
			if req.Prompt != tt.wantPrompt {
				t.Errorf("Prompt = %q, want %q", req.Prompt, tt.wantPrompt)
			}
			if req.APIKey != src.APIKey || req.Model != src.Model {
				t.Errorf("request dropped key/model: %+v", req)
			}
		})
	}
}

func TestResolveRequest_EmptyKeyStillResolves(t *testing.T) {
	// Credential validation is the client's precondition, not the
	// resolver's; an empty key must survive resolution so it can be
	// reported as a missing_credentials failure with zero network calls.
	src := baseSources()
	src.APIKey = ""
	req, err := ResolveRequest(src)
	if err != nil {
		t.Fatalf("ResolveRequest() err=%v", err)
	}
	if req.APIKey != "" {
		t.Errorf("APIKey = %q", req.APIKey)
	}
}

func TestLoadPromptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(path, []byte("explain ${env://CODEX_TEST_TOPIC}"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CODEX_TEST_TOPIC", "rayleigh scattering")

	got, err := LoadPromptFile(path)
	if err != nil {
		t.Fatalf("LoadPromptFile() err=%v", err)
	}
	if got != "explain rayleigh scattering" {
		t.Errorf("LoadPromptFile() = %q", got)
	}
}

func TestLoadPromptFile_Missing(t *testing.T) {
	if _, err := LoadPromptFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadPromptFile() succeeded for a missing file")
	}
}
