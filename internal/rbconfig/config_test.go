package rbconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWhenNoFileOrEnv(t *testing.T) {
	t.Setenv("RBQL_CONFIG", "")
	t.Setenv("RBQL_INPUT_DELIM", "")
	t.Setenv("RBQL_INPUT_POLICY", "")
	t.Setenv("RBQL_OUTPUT_DELIM", "")
	t.Setenv("RBQL_OUTPUT_POLICY", "")
	t.Setenv("RBQL_ENCODING", "")
	t.Setenv("RBQL_RECENT_TABLES_PATH", "")
	t.Setenv("RBQL_RECENT_TABLES_MAX_SIZE", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().InputDelim, cfg.InputDelim)
	assert.Equal(t, Defaults().InputPolicy, cfg.InputPolicy)
}

func TestLoadMergesYAMLFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("input_delim: \";\"\ninput_policy: whitespace\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.InputDelim)
	assert.Equal(t, "whitespace", cfg.InputPolicy)
	assert.Equal(t, Defaults().OutputPolicy, cfg.OutputPolicy)
}

func TestLoadToleratesMissingConfigFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().InputDelim, cfg.InputDelim)
}

func TestEnvironmentOverridesFileDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RBQL_CONFIG", "")
	t.Setenv("RBQL_INPUT_DELIM", "|")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "|", cfg.InputDelim)
}

func TestOverrideGivesCLIFlagsHighestPrecedence(t *testing.T) {
	cfg := Config{InputDelim: ",", InputPolicy: "quoted"}
	merged := Override(cfg, Config{InputDelim: "\t"})
	assert.Equal(t, "\t", merged.InputDelim)
	assert.Equal(t, "quoted", merged.InputPolicy)
}
