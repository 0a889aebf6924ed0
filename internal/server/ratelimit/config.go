package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method on a path. A Path ending in "/" matches every path
// under it.
type Rule struct {
	Path   string
	Method string
	Limit  int // Requests per Window
	Window time.Duration
	Burst  int // Bucket capacity; Limit when zero
}

// Config holds limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []Rule
}

// Defaults returns the built-in limiter settings.
func Defaults() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-route limits. Auto-apply runs call the LLM and
// the apply action, so they get the tightest budget; order creation is
// limited to slow down price probing.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/auto-apply", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auto-apply/stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/orders", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/orders/verify", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/orders/quote", Method: "POST", Limit: 60, Window: time.Minute, Burst: 20},
		{Path: "/profile", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/admin/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/admin/", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/admin/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// LoadConfig reads limiter settings from the environment over Defaults().
func LoadConfig() *Config {
	cfg := Defaults()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.DefaultLimit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = ipSet(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = ipSet(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// ipSet parses a comma-separated IP list.
func ipSet(list string) map[string]bool {
	set := map[string]bool{}
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
