package config

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel())
	assert.Equal(t, "node", cfg.Template.Node)
	assert.Equal(t, "ember-template-compiler", cfg.Template.Compiler)
	assert.Equal(t, "app", cfg.Module.AppDir)
	assert.Equal(t, "nested", cfg.Style.Output)
	assert.False(t, cfg.Style.Brotli)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, ioutil.WriteFile(FileName, []byte(`
environment = "production"

[log]
level = "debug"

[style]
output = "compressed"
`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "compressed", cfg.Style.Output)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Environment: "development"}
		cfg.Log.Level = "info"
		cfg.Style.Output = "nested"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Style.Output = "pretty"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Environment = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadIgnoresUnknownEnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEVCADDY_DEBUG", "1")
	t.Setenv("DEVCADDY_ENVIRONMENT", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
}
