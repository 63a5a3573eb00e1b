// Package oracle abstracts the code-generation collaborator. An Oracle is
// stateless across calls: the full conversation history travels with every
// request, and the response is the raw text from which a candidate program is
// extracted.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabular-agents/forge/core/protocol"
)

// Sentinel errors for oracle construction and candidate extraction.
var (
	ErrNoCandidate     = errors.New("no candidate extracted")
	ErrUnknownProvider = errors.New("unknown oracle provider")
	ErrOracleNotFound  = errors.New("oracle not found")
	ErrOracleExists    = errors.New("oracle already registered")
	ErrEmptyOracleName = errors.New("oracle name cannot be empty")
)

// Oracle generates a candidate program from an ordered conversation history.
type Oracle interface {
	Generate(ctx context.Context, history []protocol.Message) (string, error)
}

// Config holds oracle initialization parameters.
type Config struct {
	// Provider selects the implementation; "openai" is the only built-in.
	Provider string `json:"provider,omitempty"`
	// BaseURL is the provider endpoint, e.g. "http://localhost:11434/v1".
	BaseURL string `json:"base_url,omitempty"`
	// APIKey is sent as a bearer token when non-empty.
	APIKey string `json:"api_key,omitempty"`
	// Model names the generation model.
	Model string `json:"model,omitempty"`
	// Sampling options. Low temperature keeps generated code consistent
	// across correction rounds.
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// DefaultConfig returns the default oracle configuration.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		BaseURL:     "http://localhost:11434/v1",
		Model:       "qwen3:8b",
		Temperature: 0.1,
		TopP:        0.8,
		MaxTokens:   4000,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.TopP > 0 {
		c.TopP = source.TopP
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
}

// New creates an Oracle from configuration.
func New(cfg *Config) (Oracle, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
