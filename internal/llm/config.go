// Package llm provides the model configuration and client used by the resume
// optimizer and the project suitability classifier.
package llm

import (
	"os"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for classification: project suitability verdicts
	TierLite ModelTier = "lite"
	// TierStandard is for moderate structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for full resume rewriting
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	MaxRetries  int           // Attempts after the first for retryable failures
	RetryDelay  time.Duration // Base delay, doubled per attempt
}

// DefaultConfig returns the default Gemini configuration. Model names can be
// overridden with LLM_MODEL_LITE, LLM_MODEL_STANDARD and LLM_MODEL_ADVANCED.
func DefaultConfig() *Config {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.2,
		MaxRetries:  2,
		RetryDelay:  500 * time.Millisecond,
	}

	for tier, key := range map[ModelTier]string{
		TierLite:     "LLM_MODEL_LITE",
		TierStandard: "LLM_MODEL_STANDARD",
		TierAdvanced: "LLM_MODEL_ADVANCED",
	} {
		if v := os.Getenv(key); v != "" {
			cfg.Models[tier] = v
		}
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
