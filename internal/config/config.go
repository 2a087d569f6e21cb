// ABOUTME: Centralized configuration for the dataset generator
// ABOUTME: Loads from environment variables with defaults, plus an optional YAML overlay
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/NeoVand/synthgen-sub000/internal/llm"
	"github.com/NeoVand/synthgen-sub000/internal/models"
)

// Config holds all configuration for chunking and generation
type Config struct {
	// Backend settings
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	Seed        *int64  `yaml:"seed"`
	NumCtx      int     `yaml:"num_ctx"`

	// Chunking defaults
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	WindowSize   int `yaml:"window_size"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:      getEnv("SYNTHGEN_BASE_URL", llm.DefaultBaseURL),
		Model:        getEnv("SYNTHGEN_MODEL", "llama3.2"),
		Temperature:  getEnvFloat("SYNTHGEN_TEMPERATURE", 0.7),
		TopP:         getEnvFloat("SYNTHGEN_TOP_P", 0.9),
		NumCtx:       getEnvInt("SYNTHGEN_NUM_CTX", 4096),
		ChunkSize:    getEnvInt("SYNTHGEN_CHUNK_SIZE", models.DefaultChunkSize),
		ChunkOverlap: getEnvInt("SYNTHGEN_CHUNK_OVERLAP", models.DefaultChunkOverlap),
		WindowSize:   getEnvInt("SYNTHGEN_WINDOW_SIZE", models.DefaultWindowSize),
	}
	if v := os.Getenv("SYNTHGEN_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = &seed
		}
	}

	return cfg, cfg.Validate()
}

// LoadFile loads env configuration and overlays it with a YAML file
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("SYNTHGEN_TEMPERATURE must be 0-2, got %g", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("SYNTHGEN_TOP_P must be 0-1, got %g", c.TopP)
	}
	if c.NumCtx <= 0 {
		return fmt.Errorf("SYNTHGEN_NUM_CTX must be positive, got %d", c.NumCtx)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("SYNTHGEN_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("SYNTHGEN_CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap)
	}
	return nil
}

// GenerateOptions converts the backend tuning into request options
func (c *Config) GenerateOptions() llm.GenerateOptions {
	return llm.GenerateOptions{
		Temperature: c.Temperature,
		TopP:        c.TopP,
		Seed:        c.Seed,
		NumCtx:      c.NumCtx,
	}
}

// ChunkOptions builds chunking options for the given algorithm
func (c *Config) ChunkOptions(algorithm models.Algorithm) models.ChunkOptions {
	return models.ChunkOptions{
		Algorithm:    algorithm,
		ChunkSize:    c.ChunkSize,
		ChunkOverlap: c.ChunkOverlap,
		WindowSize:   c.WindowSize,
	}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
