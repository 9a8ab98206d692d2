package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveProvider(t *testing.T) {
	registry := DefaultProviders()

	tests := []struct {
		name      string
		input     string
		wantBase  string
		wantModel string
	}{
		{"vendor and model", "openai/gpt-4o", "https://api.openai.com/v1", "gpt-4o"},
		{"custom model", "openai/gpt-4o-mini", "https://api.openai.com/v1", "gpt-4o-mini"},
		{"bare vendor uses default model", "groq", "https://api.groq.com/openai/v1", "llama-3.3-70b-versatile"},
		{"gemini endpoint", "gemini/gemini-2.0-flash", "https://generativelanguage.googleapis.com/v1beta/openai", "gemini-2.0-flash"},
		{"local ollama", "ollama/mistral", "http://localhost:11434/v1", "mistral"},
		{"case insensitive vendor", "OpenAI/gpt-4o", "https://api.openai.com/v1", "gpt-4o"},
		{"model with slash", "openai/org/custom-model", "https://api.openai.com/v1", "org/custom-model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := registry.Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.input, err)
			}
			if provider.BaseURL != tt.wantBase {
				t.Errorf("base URL = %q, want %q", provider.BaseURL, tt.wantBase)
			}
			if model != tt.wantModel {
				t.Errorf("model = %q, want %q", model, tt.wantModel)
			}
		})
	}
}

func TestResolveProviderUnknown(t *testing.T) {
	registry := DefaultProviders()
	if _, _, err := registry.Resolve("skynet/t-800"); err == nil || !strings.Contains(err.Error(), "unknown model provider") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
	if _, _, err := registry.Resolve("  "); err == nil {
		t.Fatal("expected error for blank provider")
	}
}

func TestLoadProvidersOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := `providers:
  - name: openai
    base_url: https://openai.internal.example.com/v1
  - name: corp
    base_url: https://llm.corp.example.com/v1
    model: corp-large
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	registry, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders returned error: %v", err)
	}

	// Overridden base URL keeps the built-in default model.
	provider, model, err := registry.Resolve("openai")
	if err != nil {
		t.Fatalf("Resolve(openai): %v", err)
	}
	if provider.BaseURL != "https://openai.internal.example.com/v1" {
		t.Errorf("openai base URL = %q", provider.BaseURL)
	}
	if model != "gpt-4o" {
		t.Errorf("openai default model = %q, want gpt-4o", model)
	}

	// New vendors become resolvable.
	provider, model, err = registry.Resolve("corp/corp-small")
	if err != nil {
		t.Fatalf("Resolve(corp/corp-small): %v", err)
	}
	if provider.BaseURL != "https://llm.corp.example.com/v1" {
		t.Errorf("corp base URL = %q", provider.BaseURL)
	}
	if model != "corp-small" {
		t.Errorf("corp model = %q, want corp-small", model)
	}

	// Untouched defaults survive the overlay.
	if _, _, err := registry.Resolve("deepseek"); err != nil {
		t.Errorf("deepseek should still resolve, got %v", err)
	}
}

func TestLoadProvidersRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "providers:\n  - base_url: https://example.com/v1\n",
			wantErr: "name is required",
		},
		{
			name:    "new vendor without base url",
			content: "providers:\n  - name: corp\n    model: corp-large\n",
			wantErr: "base_url is required",
		},
		{
			name:    "malformed yaml",
			content: "providers: [rocks\n",
			wantErr: "parse providers file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "providers.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write providers file: %v", err)
			}
			if _, err := LoadProviders(path); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadProvidersMissingFile(t *testing.T) {
	if _, err := LoadProviders(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing providers file")
	}
	if registry, err := LoadProviders(""); err != nil || registry == nil {
		t.Fatalf("empty path should return defaults, got %v", err)
	}
}
