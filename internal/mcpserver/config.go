package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// AllowPrivateIPs disables the SSRF guard on URL spec inputs.
	AllowPrivateIPs bool
	// MaxInlineSize bounds inline spec content, in bytes.
	MaxInlineSize int64
	// HookMode is the default hook flavor for the generate tool.
	HookMode string
	// ExcludeTags is the default endpoint exclusion list.
	ExcludeTags []string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from TSBRIDGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		AllowPrivateIPs: envBool("TSBRIDGE_ALLOW_PRIVATE_IPS", false),
		MaxInlineSize:   envInt64("TSBRIDGE_MAX_INLINE_SIZE", 2*1024*1024),
		HookMode:        os.Getenv("TSBRIDGE_HOOK_MODE"),
		ExcludeTags:     envList("TSBRIDGE_EXCLUDE_TAGS", []string{"internal"}),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
