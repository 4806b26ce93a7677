package llm

import "testing"

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{"default is openai", Config{APIKey: "k"}, "openai", false},
		{"claude alias", Config{Provider: "Claude", APIKey: "k"}, "anthropic", false},
		{"gemini", Config{Provider: "gemini", APIKey: "k"}, "gemini", false},
		{"ollama needs no key", Config{Provider: "ollama"}, "ollama", false},
		{"openai without key", Config{Provider: "openai"}, "", true},
		{"gemini without key", Config{Provider: "gemini"}, "", true},
		{"unknown", Config{Provider: "mystery", APIKey: "k"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestAPIKeyEnv(t *testing.T) {
	if APIKeyEnv("anthropic") != "ANTHROPIC_API_KEY" {
		t.Error("unexpected env for anthropic")
	}
	if APIKeyEnv("gemini") != "GEMINI_API_KEY" {
		t.Error("unexpected env for gemini")
	}
	if APIKeyEnv("ollama") != "" {
		t.Error("ollama should need no key")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timeout != 60 {
		t.Errorf("Expected 60s timeout, got %d", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("Expected 2 retries, got %d", cfg.MaxRetries)
	}
	if cfg.maxTokens(Request{MaxTokens: 200}) != 200 {
		t.Error("Expected request max tokens to win")
	}
}
