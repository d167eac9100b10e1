// Package config loads the process environment into a typed struct,
// following the teacher's internal/config/config.go Default()/Load()
// pair (a struct with sane defaults, overlaid by env vars read
// directly — no .env convenience library, matching spec.md §6's env
// var list being the actual contract).
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config is the process-wide configuration for cmd/clanserver.
type Config struct {
	MongoURI string
	Host     string
	Port     string

	LogLevel slog.Level

	AdminToken string

	// KeysDir holds psn.pub/rpcn.pub (spec.md SPEC_FULL §4.1 EXPANSION).
	KeysDir string
	// VerifyConsole toggles strict Console signature enforcement
	// (spec.md §4.1 step 13 / §9, default off).
	VerifyConsole bool

	LimitsFile string
}

// Default returns the zero-config baseline: localhost Mongo, port
// 8080, info logging, console verification off.
func Default() Config {
	return Config{
		MongoURI:      "mongodb://localhost:27017",
		Host:          "0.0.0.0",
		Port:          "8080",
		LogLevel:      slog.LevelInfo,
		KeysDir:       "./keys",
		VerifyConsole: false,
	}
}

// Load overlays Default() with the environment variables spec.md §6
// names plus the ambient-stack additions.
func Load() Config {
	c := Default()

	c.MongoURI = getenv("MONGO_URI", c.MongoURI)
	c.Host = getenv("HOST", c.Host)
	c.Port = getenv("PORT", c.Port)
	c.AdminToken = getenv("ADMIN_TOKEN", c.AdminToken)
	c.KeysDir = getenv("KEYS_DIR", c.KeysDir)
	c.LimitsFile = getenv("LIMITS_FILE", c.LimitsFile)

	if lvl := os.Getenv("RUST_LOG"); lvl != "" {
		c.LogLevel = parseLevel(lvl)
	}
	if v := os.Getenv("VERIFY_CONSOLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.VerifyConsole = b
		}
	}

	return c
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseLevel maps the RUST_LOG-equivalent string to an slog.Level,
// defaulting to Info on anything unrecognized.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
