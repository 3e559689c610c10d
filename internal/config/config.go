package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service settings.
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Memory MemoryConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	mem, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, LLM: llm, Memory: mem}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LLMConfig describes the Groq completion API settings.
type LLMConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// Enabled reports whether the required credential is present.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadLLMConfig() (LLMConfig, error) {
	timeoutSeconds, err := parseOptionalIntEnv("GROQ_TIMEOUT_SECONDS")
	if err != nil {
		return LLMConfig{}, err
	}
	timeout := 30 * time.Second
	if timeoutSeconds != nil {
		if *timeoutSeconds < 1 {
			return LLMConfig{}, fmt.Errorf("GROQ_TIMEOUT_SECONDS must be positive")
		}
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	maxTokens, err := parseOptionalIntEnv("GROQ_MAX_TOKENS")
	if err != nil {
		return LLMConfig{}, err
	}
	tokens := 500
	if maxTokens != nil {
		if *maxTokens < 1 {
			return LLMConfig{}, fmt.Errorf("GROQ_MAX_TOKENS must be positive")
		}
		tokens = *maxTokens
	}

	return LLMConfig{
		APIKey:    strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		Model:     getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		BaseURL:   getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Timeout:   timeout,
		MaxTokens: tokens,
	}, nil
}

// MemoryConfig describes the conversation memory store.
type MemoryConfig struct {
	MaxMessages   int
	TTL           time.Duration
	SweepInterval time.Duration
}

func loadMemoryConfig() (MemoryConfig, error) {
	maxMessages, err := parseOptionalIntEnv("MEMORY_MAX_MESSAGES")
	if err != nil {
		return MemoryConfig{}, err
	}
	max := 50
	if maxMessages != nil {
		if *maxMessages < 1 {
			return MemoryConfig{}, fmt.Errorf("MEMORY_MAX_MESSAGES must be positive")
		}
		max = *maxMessages
	}

	ttlHours, err := parseOptionalIntEnv("MEMORY_TTL_HOURS")
	if err != nil {
		return MemoryConfig{}, err
	}
	ttl := 24 * time.Hour
	if ttlHours != nil {
		if *ttlHours < 1 {
			return MemoryConfig{}, fmt.Errorf("MEMORY_TTL_HOURS must be positive")
		}
		ttl = time.Duration(*ttlHours) * time.Hour
	}

	sweepMinutes, err := parseOptionalIntEnv("MEMORY_SWEEP_MINUTES")
	if err != nil {
		return MemoryConfig{}, err
	}
	sweep := time.Hour
	if sweepMinutes != nil {
		if *sweepMinutes < 1 {
			return MemoryConfig{}, fmt.Errorf("MEMORY_SWEEP_MINUTES must be positive")
		}
		sweep = time.Duration(*sweepMinutes) * time.Minute
	}

	return MemoryConfig{MaxMessages: max, TTL: ttl, SweepInterval: sweep}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
