// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Scorer names accepted by Config.Scorer.
const (
	ScorerRandom  = "random"
	ScorerKeyword = "keyword"
)

// Artifact store names accepted by Config.ArtifactStore.
const (
	ArtifactStorePlaceholder = "placeholder"
	ArtifactStoreS3          = "s3"
)

// Project policy names accepted by Config.ProjectPolicy.
const (
	ProjectPolicyReuse       = "reuse"
	ProjectPolicyPlaceholder = "placeholder"
)

// Config represents the service configuration that can be loaded from a JSON file
// and overlaid from the environment. All fields are optional; missing values use
// defaults.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Remote apply action
	ApplyFunctionURL string `json:"apply_function_url,omitempty"`
	ApplyFunctionKey string `json:"apply_function_key,omitempty"`

	// Artifacts
	ArtifactBaseURL string   `json:"artifact_base_url,omitempty"`
	ArtifactStore   string   `json:"artifact_store,omitempty"` // placeholder or s3
	S3              S3Config `json:"s3,omitempty"`

	// Pluggable policies
	Scorer        string `json:"scorer,omitempty"`         // random or keyword
	ProjectPolicy string `json:"project_policy,omitempty"` // reuse or placeholder

	// Billing
	PricingCatalog string         `json:"pricing_catalog,omitempty"` // Path to a YAML catalog; empty uses the embedded one
	Razorpay       RazorpayConfig `json:"razorpay,omitempty"`

	Telegram TelegramConfig `json:"telegram,omitempty"`
	Timeouts Timeouts       `json:"timeouts,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// S3Config holds artifact bucket settings.
type S3Config struct {
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
}

// RazorpayConfig holds payment gateway credentials.
type RazorpayConfig struct {
	KeyID     string `json:"key_id,omitempty"`
	KeySecret string `json:"key_secret,omitempty"`
}

// TelegramConfig holds ops notification settings. Notifications are disabled
// when BotToken is empty.
type TelegramConfig struct {
	BotToken string `json:"bot_token,omitempty"`
	ChatID   int64  `json:"chat_id,omitempty"`
}

// Timeouts bounds each external call made by the pipelines.
type Timeouts struct {
	Profile  Duration `json:"profile,omitempty"`
	Job      Duration `json:"job,omitempty"`
	Assembly Duration `json:"assembly,omitempty"`
	Rerank   Duration `json:"rerank,omitempty"`
	Optimize Duration `json:"optimize,omitempty"`
	Store    Duration `json:"store,omitempty"`
	Submit   Duration `json:"submit,omitempty"`
	Gateway  Duration `json:"gateway,omitempty"`
}

// Duration is a time.Duration that reads Go duration strings ("30s") from JSON.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds")
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            8080,
		ArtifactBaseURL: "https://storage.local",
		ArtifactStore:   ArtifactStorePlaceholder,
		Scorer:          ScorerRandom,
		ProjectPolicy:   ProjectPolicyReuse,
		S3:              S3Config{Region: "ap-south-1"},
		Timeouts: Timeouts{
			Profile:  Duration(10 * time.Second),
			Job:      Duration(10 * time.Second),
			Assembly: Duration(15 * time.Second),
			Rerank:   Duration(30 * time.Second),
			Optimize: Duration(90 * time.Second),
			Store:    Duration(60 * time.Second),
			Submit:   Duration(120 * time.Second),
			Gateway:  Duration(15 * time.Second),
		},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path, merged
// over the defaults, then overlaid with the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overlays values present in the environment.
func (c *Config) ApplyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.ApplyFunctionURL, "APPLY_FUNCTION_URL")
	setString(&c.ApplyFunctionKey, "APPLY_FUNCTION_KEY")
	setString(&c.ArtifactBaseURL, "ARTIFACT_BASE_URL")
	setString(&c.ArtifactStore, "ARTIFACT_STORE")
	setString(&c.Scorer, "SCORER")
	setString(&c.ProjectPolicy, "PROJECT_POLICY")
	setString(&c.PricingCatalog, "PRICING_CATALOG")
	setString(&c.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setString(&c.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	setString(&c.S3.Region, "AWS_REGION")
	setString(&c.S3.Bucket, "AWS_S3_BUCKET")
	setString(&c.S3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&c.S3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
		}
		c.Telegram.ChatID = chatID
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required credentials are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch c.Scorer {
	case "", ScorerRandom, ScorerKeyword:
	default:
		return fmt.Errorf("config error: unknown scorer %q", c.Scorer)
	}

	switch c.ProjectPolicy {
	case "", ProjectPolicyReuse, ProjectPolicyPlaceholder:
	default:
		return fmt.Errorf("config error: unknown project_policy %q", c.ProjectPolicy)
	}

	switch c.ArtifactStore {
	case "", ArtifactStorePlaceholder:
	case ArtifactStoreS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("config error: 's3.bucket' and 's3.region' are required for the s3 artifact store")
		}
	default:
		return fmt.Errorf("config error: unknown artifact_store %q", c.ArtifactStore)
	}

	if (c.Razorpay.KeyID == "") != (c.Razorpay.KeySecret == "") {
		return fmt.Errorf("config error: 'razorpay.key_id' and 'razorpay.key_secret' must be set together")
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("config error: 'telegram.chat_id' is required when a bot token is set")
	}

	for name, d := range map[string]Duration{
		"profile": c.Timeouts.Profile, "job": c.Timeouts.Job, "assembly": c.Timeouts.Assembly,
		"rerank": c.Timeouts.Rerank, "optimize": c.Timeouts.Optimize, "store": c.Timeouts.Store,
		"submit": c.Timeouts.Submit, "gateway": c.Timeouts.Gateway,
	} {
		if d < 0 {
			return fmt.Errorf("config error: timeout '%s' must be non-negative", name)
		}
	}

	if c.PricingCatalog != "" {
		if _, err := os.Stat(c.PricingCatalog); os.IsNotExist(err) {
			return fmt.Errorf("config error: pricing catalog not found: %s", c.PricingCatalog)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	mergeDuration := func(dst *Duration, def Duration) {
		if *dst == 0 {
			*dst = def
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.ApplyFunctionURL, defaults.ApplyFunctionURL)
	mergeString(&result.ApplyFunctionKey, defaults.ApplyFunctionKey)
	mergeString(&result.ArtifactBaseURL, defaults.ArtifactBaseURL)
	mergeString(&result.ArtifactStore, defaults.ArtifactStore)
	mergeString(&result.Scorer, defaults.Scorer)
	mergeString(&result.ProjectPolicy, defaults.ProjectPolicy)
	mergeString(&result.PricingCatalog, defaults.PricingCatalog)
	mergeString(&result.S3.Region, defaults.S3.Region)
	mergeString(&result.S3.Bucket, defaults.S3.Bucket)

	mergeDuration(&result.Timeouts.Profile, defaults.Timeouts.Profile)
	mergeDuration(&result.Timeouts.Job, defaults.Timeouts.Job)
	mergeDuration(&result.Timeouts.Assembly, defaults.Timeouts.Assembly)
	mergeDuration(&result.Timeouts.Rerank, defaults.Timeouts.Rerank)
	mergeDuration(&result.Timeouts.Optimize, defaults.Timeouts.Optimize)
	mergeDuration(&result.Timeouts.Store, defaults.Timeouts.Store)
	mergeDuration(&result.Timeouts.Submit, defaults.Timeouts.Submit)
	mergeDuration(&result.Timeouts.Gateway, defaults.Timeouts.Gateway)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	return result
}
