package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/autoapply",
		"scorer": "keyword",
		"razorpay": {"key_id": "rzp_test_1", "key_secret": "s3cret"},
		"timeouts": {"optimize": "2m", "submit": 45}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/autoapply", cfg.DatabaseURL)
	assert.Equal(t, ScorerKeyword, cfg.Scorer)
	assert.Equal(t, "rzp_test_1", cfg.Razorpay.KeyID)
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Optimize.Std())
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Submit.Std())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{invalid`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config JSON")
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"timeouts": {"job": "soon"}}`))
		require.Error(t, err)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config path is empty")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "unknown scorer", mutate: func(c *Config) { c.Scorer = "magic" }, wantErr: "scorer"},
		{name: "unknown project policy", mutate: func(c *Config) { c.ProjectPolicy = "none" }, wantErr: "project_policy"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.ArtifactStore = ArtifactStoreS3 }, wantErr: "s3.bucket"},
		{name: "s3 with bucket", mutate: func(c *Config) {
			c.ArtifactStore = ArtifactStoreS3
			c.S3.Bucket = "resumes"
		}},
		{name: "razorpay half configured", mutate: func(c *Config) { c.Razorpay.KeyID = "rzp" }, wantErr: "razorpay"},
		{name: "telegram without chat", mutate: func(c *Config) { c.Telegram.BotToken = "123:abc" }, wantErr: "chat_id"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeouts.Rerank = Duration(-time.Second) }, wantErr: "rerank"},
		{name: "missing catalog", mutate: func(c *Config) { c.PricingCatalog = "/nonexistent/pricing.yaml" }, wantErr: "pricing catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://file",
		Timeouts:    Timeouts{Optimize: Duration(time.Minute)},
	}

	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, "postgres://file", merged.DatabaseURL, "explicit values win")
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, ScorerRandom, merged.Scorer)
	assert.Equal(t, time.Minute, merged.Timeouts.Optimize.Std())
	assert.Equal(t, 10*time.Second, merged.Timeouts.Job.Std())
	assert.Empty(t, cfg.Scorer, "receiver is not modified")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"database_url": "postgres://file", "port": 9000}`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("PORT", "9100")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("ARTIFACT_STORE", "")
	t.Setenv("PRICING_CATALOG", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 9100, cfg.Port)
}

func TestApplyEnv_InvalidNumbers(t *testing.T) {
	cfg := Default()
	t.Setenv("PORT", "eighty")
	assert.Error(t, cfg.ApplyEnv())

	t.Setenv("PORT", "")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	assert.Error(t, cfg.ApplyEnv())
}
