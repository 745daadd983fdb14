package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	path := writeConfigFile(t, `
minChar: 2
selectionHistoryLimit: 8
llmEnabled: true
llm:
  provider: openai
  apiKey: sk-test
  modelId: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MinChar)
	assert.Equal(t, 8, cfg.SelectionHistoryLimit)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.ModelID)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, "minChar: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MinChar)
	assert.Equal(t, Default().SelectionHistoryLimit, cfg.SelectionHistoryLimit)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfigFile(t, "minChar: [not an int\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeMinChar(t *testing.T) {
	path := writeConfigFile(t, "minChar: -1\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "minChar")
}
