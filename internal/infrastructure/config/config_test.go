package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	if cfg.ServerAddress != ":9090" {
		t.Errorf("server address: got %q", cfg.ServerAddress)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeout)
	}
	if cfg.LLMAPIKey != "test-key" {
		t.Errorf("api key: got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("llm timeout: got %v", cfg.LLMTimeout)
	}

	// Defaults when unset.
	if cfg.LLMModel != "llama-3.3-70b-versatile" {
		t.Errorf("model default: got %q", cfg.LLMModel)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("session ttl default: got %v", cfg.SessionTTL)
	}
}
