package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromEmptyDir(t *testing.T) *Config {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadFromEmptyDir(t)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "./data/clubstats.db", cfg.SQLite.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Chatbot.QueryTimeoutSec)
	assert.Equal(t, 0.5, cfg.Chatbot.RecordThreshold)
	assert.Equal(t, 256, cfg.Chatbot.RecorderQueueSize)
	assert.Equal(t, 500, cfg.Chatbot.MaxQuestionLength)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CLUBSTATS_SERVER_PORT", "9999")
	t.Setenv("CLUBSTATS_CHATBOT_DEBUG", "true")

	cfg := loadFromEmptyDir(t)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Chatbot.Debug)
}
