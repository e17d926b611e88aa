package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Workspace cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration
	CacheURLTTL  time.Duration

	// Result paging defaults.
	PageLimit int
	MaxLimit  int

	// TreeDepth is the default depth of the tree tool; 0 means unlimited.
	TreeDepth int

	// Input limits.
	MaxInlineSize   int64
	MaxSpecs        int
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASEXPLORER_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:    envBool("OASEXPLORER_CACHE_ENABLED", true),
		CacheMaxSize:    envInt("OASEXPLORER_CACHE_MAX_SIZE", 10),
		CacheTTL:        envDuration("OASEXPLORER_CACHE_TTL", 15*time.Minute),
		CacheURLTTL:     envDuration("OASEXPLORER_CACHE_URL_TTL", 5*time.Minute),
		PageLimit:       envInt("OASEXPLORER_PAGE_LIMIT", 100),
		MaxLimit:        envInt("OASEXPLORER_MAX_LIMIT", 1000),
		TreeDepth:       envInt("OASEXPLORER_TREE_DEPTH", 0),
		MaxInlineSize:   int64(envInt("OASEXPLORER_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxSpecs:        envInt("OASEXPLORER_MAX_SPECS", 10),
		AllowPrivateIPs: envBool("OASEXPLORER_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// envInt reads a non-negative integer. Zero is only accepted when the
// fallback is zero, so limits cannot be switched off by accident.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || (n == 0 && fallback != 0) {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
