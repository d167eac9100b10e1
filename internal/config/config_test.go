package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Baseline(t *testing.T) {
	c := Default()
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "8080", c.Port)
	assert.False(t, c.VerifyConsole)
}

func TestLoad_OverlaysFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://example:27017")
	t.Setenv("PORT", "9090")
	t.Setenv("RUST_LOG", "debug")
	t.Setenv("VERIFY_CONSOLE", "true")

	c := Load()
	assert.Equal(t, "mongodb://example:27017", c.MongoURI)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.True(t, c.VerifyConsole)
}

func TestLoad_IgnoresUnparseableBool(t *testing.T) {
	t.Setenv("VERIFY_CONSOLE", "not-a-bool")
	c := Load()
	assert.False(t, c.VerifyConsole)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("trace"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("whatever"))
}
