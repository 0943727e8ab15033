package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Question generation and grading
	LLMURL     string // OpenAI-compatible endpoint, e.g. "https://api.groq.com/openai"
	LLMModel   string // model name, e.g. "llama-3.3-70b-versatile"
	LLMAPIKey  string // bearer token; empty for local endpoints
	LLMTimeout time.Duration

	// Storage and housekeeping
	DBPath     string
	SessionTTL time.Duration // live sessions idle past this are reaped
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		LLMURL:          getenvDefault("LLM_URL", "https://api.groq.com/openai"),
		LLMModel:        getenvDefault("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMTimeout:      getenvDuration("LLM_TIMEOUT", 60*time.Second),
		DBPath:          getenvDefault("DB_PATH", "interviewer.db"),
		SessionTTL:      getenvDuration("SESSION_TTL", time.Hour),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
