package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider describes one OpenAI-compatible chat completions endpoint.
type Provider struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type providersFile struct {
	Providers []Provider `yaml:"providers"`
}

// ProviderRegistry resolves "vendor/model" provider strings to endpoints.
type ProviderRegistry struct {
	providers map[string]Provider
}

// DefaultProviders returns the built-in registry. Every entry speaks the
// OpenAI chat completions dialect.
func DefaultProviders() *ProviderRegistry {
	defaults := []Provider{
		{Name: "openai", BaseURL: "https://api.openai.com/v1", Model: "gpt-4o"},
		{Name: "gemini", BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", Model: "gemini-pro"},
		{Name: "groq", BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile"},
		{Name: "deepseek", BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
		{Name: "ollama", BaseURL: "http://localhost:11434/v1", Model: "llama3"},
	}
	providers := make(map[string]Provider, len(defaults))
	for _, p := range defaults {
		providers[p.Name] = p
	}
	return &ProviderRegistry{providers: providers}
}

// LoadProviders overlays a YAML providers file onto the built-in registry.
// An empty path returns the defaults unchanged.
func LoadProviders(path string) (*ProviderRegistry, error) {
	registry := DefaultProviders()
	if path == "" {
		return registry, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}
	var file providersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}

	for i, p := range file.Providers {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, fmt.Errorf("providers[%d]: name is required", i)
		}
		merged := Provider{Name: name, BaseURL: strings.TrimSpace(p.BaseURL), Model: strings.TrimSpace(p.Model)}
		if existing, ok := registry.providers[name]; ok {
			if merged.BaseURL == "" {
				merged.BaseURL = existing.BaseURL
			}
			if merged.Model == "" {
				merged.Model = existing.Model
			}
		}
		if merged.BaseURL == "" {
			return nil, fmt.Errorf("providers[%d]: base_url is required for %q", i, name)
		}
		registry.providers[name] = merged
	}
	return registry, nil
}

// Resolve parses a "vendor/model" provider string and returns the matching
// endpoint plus the model to request. A bare vendor uses the vendor's
// default model.
func (r *ProviderRegistry) Resolve(value string) (Provider, string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Provider{}, "", fmt.Errorf("provider cannot be empty")
	}

	vendor := trimmed
	model := ""
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		vendor = trimmed[:idx]
		model = trimmed[idx+1:]
	}
	vendor = strings.ToLower(strings.TrimSpace(vendor))

	provider, ok := r.providers[vendor]
	if !ok {
		return Provider{}, "", fmt.Errorf("unknown model provider %q (known: %s)", vendor, strings.Join(r.Names(), ", "))
	}
	if model = strings.TrimSpace(model); model == "" {
		model = provider.Model
	}
	return provider, model, nil
}

// Names returns the known vendor ids in sorted order.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
