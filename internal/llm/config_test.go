package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LLM_MODEL_ADVANCED", "")
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Greater(t, cfg.MaxRetries, 0)
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("LLM_MODEL_ADVANCED", "gemini-exp")
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-exp", cfg.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierStandard: "std"}}
	assert.Equal(t, "std", cfg.GetModel(TierAdvanced))

	cfg = &Config{Models: map[ModelTier]string{TierLite: "lite"}}
	assert.Equal(t, "lite", cfg.GetModel(TierAdvanced))

	cfg = &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", cfg.GetModel(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	base := DefaultConfig()
	modified := base.WithModel(TierLite, "custom-lite")

	assert.Equal(t, "custom-lite", modified.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash-lite", base.GetModel(TierLite))
	assert.Equal(t, base.Temperature, modified.Temperature)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errString("rpc error: code = Unavailable desc = overloaded")))
	assert.True(t, isRetryable(errString("googleapi: Error 429: quota")))
	assert.False(t, isRetryable(errString("invalid argument")))
}

type errString string

func (e errString) Error() string { return string(e) }
