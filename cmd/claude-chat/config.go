package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/bitop-dev/claude/pkg/claude"
)

// fileConfig is the YAML structure of the chat config file.
type fileConfig struct {
	// Model ID to use (e.g. "claude-sonnet-4-5").
	Model string `yaml:"model"`

	// APIKey can be a literal key or "${ANTHROPIC_API_KEY}" to read from
	// the environment.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the default API endpoint (proxies, gateways).
	BaseURL string `yaml:"base_url"`

	// SystemPrompt is sent with every request.
	SystemPrompt string `yaml:"system_prompt"`

	// MaxTokens caps the response length. Validated against the model's
	// output ceiling at startup.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature controls randomness (nil = API default).
	Temperature *float64 `yaml:"temperature"`

	// StopSequences are custom sequences that end generation.
	StopSequences []string `yaml:"stop_sequences"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// Expand environment variables in the raw YAML before parsing.
	expanded := os.ExpandEnv(string(data))

	var cfg fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Model == "" {
		cfg.Model = string(claude.ModelClaudeSonnet4_5)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config: api_key is required (or set ANTHROPIC_API_KEY)")
	}
	return &cfg, nil
}

// defaultConfig is used when no config file exists.
func defaultConfig() (*fileConfig, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	return &fileConfig{
		Model:     string(claude.ModelClaudeSonnet4_5),
		APIKey:    key,
		MaxTokens: 1024,
	}, nil
}
