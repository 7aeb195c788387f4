package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/openseva/seva/model"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Addr string

	// Model selection
	Model model.ChatModel

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Agent
	MaxSteps int
	Timeout  time.Duration

	// GRM case-management API
	GRMAPIURL   string
	GRMAPIToken string
	UserID      string

	// MyScheme search (Google Custom Search)
	GoogleCSEKey string
	GoogleCSEID  string

	// ElevenLabs
	ElevenLabsKey   string
	ElevenLabsVoice string

	// Document storage (R2 / S3)
	BlobBucket          string
	BlobEndpoint        string
	BlobAccessKeyID     string
	BlobSecretAccessKey string
	BlobPublicURL       string
}

// LoadConfig loads configuration from environment variables. A .env
// file is loaded first if present.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	m, err := resolveModel(os.Getenv("SEVA_MODEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:                getEnvOrDefault("SEVA_ADDR", ":8080"),
		Model:               m,
		AnthropicKey:        os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		GoogleKey:           os.Getenv("GEMINI_API_KEY"),
		MaxSteps:            getEnvIntOrDefault("SEVA_MAX_STEPS", 3),
		Timeout:             getEnvDurationOrDefault("SEVA_TIMEOUT", 2*time.Minute),
		GRMAPIURL:           os.Getenv("GRM_API_URL"),
		GRMAPIToken:         os.Getenv("GRM_API_TOKEN"),
		UserID:              os.Getenv("USER_ID"),
		GoogleCSEKey:        os.Getenv("GOOGLE_CSE_KEY"),
		GoogleCSEID:         os.Getenv("GOOGLE_CSE_ID"),
		ElevenLabsKey:       os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoice:     os.Getenv("ELEVENLABS_VOICE_ID"),
		BlobBucket:          os.Getenv("BLOB_BUCKET"),
		BlobEndpoint:        os.Getenv("BLOB_ENDPOINT"),
		BlobAccessKeyID:     os.Getenv("BLOB_ACCESS_KEY_ID"),
		BlobSecretAccessKey: os.Getenv("BLOB_SECRET_ACCESS_KEY"),
		BlobPublicURL:       os.Getenv("BLOB_PUBLIC_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration the server cannot start without.
// Optional collaborators (search, speech, storage) degrade per their
// package contracts instead of failing here.
func (c *Config) Validate() error {
	switch c.Model.Provider() {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for model %s", c.Model)
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for model %s", c.Model)
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for model %s", c.Model)
		}
	}

	if c.GRMAPIURL == "" || c.GRMAPIToken == "" {
		return fmt.Errorf("GRM_API_URL and GRM_API_TOKEN are required")
	}
	if c.UserID == "" {
		return fmt.Errorf("USER_ID is required")
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("SEVA_MAX_STEPS must be at least 1")
	}
	return nil
}

// resolveModel maps a SEVA_MODEL value to a chat model. Empty selects
// the default.
func resolveModel(name string) (model.ChatModel, error) {
	if name == "" {
		return model.Claude35Haiku, nil
	}

	known := []model.ChatModel{
		model.Claude35Haiku,
		model.ClaudeHaiku45,
		model.ClaudeSonnet45,
		model.ClaudeOpus45,
		model.GPT52,
		model.GPT51,
		model.GPT51Mini,
		model.GPT5Mini,
		model.Gemini25Flash,
		model.Gemini25Pro,
	}
	for _, m := range known {
		if m.String() == name {
			return m, nil
		}
	}
	return model.ChatModel{}, fmt.Errorf("unknown SEVA_MODEL: %s", name)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
