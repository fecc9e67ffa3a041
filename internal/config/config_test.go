package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, 3, cfg.Usage.DailyLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Ready())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o"
	cfg.APIKey = "sk-test"
	cfg.Usage.DailyLimit = 5
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, 5, got.Usage.DailyLimit)
	assert.True(t, got.Ready())
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\napi_key: from-file\n"), 0600))

	t.Setenv("DAPTALK_API_KEY", "from-env")
	t.Setenv("DAPTALK_USAGE_DAILY_LIMIT", "7")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 7, cfg.Usage.DailyLimit)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [oops"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestReady(t *testing.T) {
	assert.True(t, (&Config{Provider: "ollama"}).Ready())
	assert.False(t, (&Config{Provider: "custom"}).Ready())
	assert.True(t, (&Config{Provider: "custom", BaseURL: "http://localhost:8080/v1"}).Ready())
	assert.False(t, (&Config{Provider: "nope"}).Ready())
}

func TestGetProvider(t *testing.T) {
	p := GetProvider("gemini")
	require.NotNil(t, p)
	assert.True(t, p.Vision)
	assert.Nil(t, GetProvider("missing"))
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.path = filepath.Join(dir, "config.yaml")

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	_, err = os.Stat(filepath.Join(dir, "daptalk.log"))
	assert.NoError(t, err)

	cfg.Logging.Level = "banana"
	_, err = NewLogger(cfg)
	assert.Error(t, err)

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "xml"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}
