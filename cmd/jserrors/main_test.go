package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/jserrorcollector/pkg/config"
	"github.com/entrhq/jserrorcollector/pkg/extension"
	"github.com/entrhq/jserrorcollector/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOnly(t *testing.T) {
	flags := parseFlags([]string{"-url", "http://localhost:3000", "-interval", "200ms", "-format", "json"})

	cfg, err := loadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, 200*time.Millisecond, cfg.Interval)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Artifacts.Enabled)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jserrors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: http://from-file
headless: true
duration: 30s
logging:
  verbosity: quiet
`), 0600))

	flags := parseFlags([]string{"-config", path, "-headless=false", "-artifacts", "out"})
	cfg, err := loadConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file", cfg.URL)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Duration)
	assert.Equal(t, "quiet", cfg.Logging.Verbosity)
	assert.True(t, cfg.Artifacts.Enabled)
	assert.Equal(t, "out", cfg.Artifacts.OutputDir)
}

func TestLoadConfig_ExtractOnlyUsesTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	path := filepath.Join(t.TempDir(), "extract.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temp_dir: "+dir+"\n"), 0600))

	cfg, err := loadConfig(parseFlags([]string{"-config", path, "-extract-only"}))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, dir, cfg.TempDir)

	extracted, err := newExtractor(cfg, logging.Discard()).Extract()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, extension.Filename), extracted)
	assert.FileExists(t, extracted)
}

func TestLoadConfig_ExtractOnlyBadConfigFile(t *testing.T) {
	_, err := loadConfig(parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "-extract-only"}))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(parseFlags(nil))
	assert.ErrorContains(t, err, "url is required")

	_, err = loadConfig(parseFlags([]string{"-url", "http://x", "-format", "xml"}))
	assert.ErrorContains(t, err, "invalid format")

	_, err = loadConfig(parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.ErrorContains(t, err, "failed to read config file")
}
