package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskIntent classifies a chat utterance into an intent.
	TaskIntent TaskType = "intent"
	// TaskPrescription extracts a structured prescription from free text.
	TaskPrescription TaskType = "prescription"
	// TaskGrounded answers a question strictly from retrieved context.
	TaskGrounded TaskType = "grounded"
	// TaskFallback answers from general knowledge when retrieval failed.
	TaskFallback TaskType = "fallback"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides the global timeout if > 0
}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Endpoint       string
	Model          string
	EmbedModel     string
	TimeoutMs      int
	EmbedTimeoutMs int
	MaxRetries     int
	LogCalls       bool
	Tasks          map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "http://localhost:11434",
		Model:          "llama3.2",
		EmbedModel:     "nomic-embed-text",
		TimeoutMs:      30000,
		EmbedTimeoutMs: 10000,
		MaxRetries:     0,
		LogCalls:       false,
		Tasks: map[TaskType]TaskConfig{
			TaskIntent:       {Temperature: 0.2, MaxTokens: 512, TimeoutMs: 10000},
			TaskPrescription: {Temperature: 0.0, MaxTokens: 512, TimeoutMs: 10000},
			TaskGrounded:     {Temperature: 0.5, MaxTokens: 1024, TimeoutMs: 30000},
			TaskFallback:     {Temperature: 0.5, MaxTokens: 1024, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables, falling
// back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BULARIO_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("BULARIO_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("BULARIO_LLM_EMBED_MODEL"); v != "" {
		cfg.EmbedModel = v
	}
	if v := os.Getenv("BULARIO_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("BULARIO_LLM_EMBED_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EmbedTimeoutMs = n
		}
	}
	if v := os.Getenv("BULARIO_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("BULARIO_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	applyTaskTimeoutEnv(&cfg, TaskIntent, "BULARIO_LLM_INTENT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskPrescription, "BULARIO_LLM_PRESCRIPTION_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskGrounded, "BULARIO_LLM_GROUNDED_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskFallback, "BULARIO_LLM_FALLBACK_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
