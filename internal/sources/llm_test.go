package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMClientDefaults(t *testing.T) {
	_, cfg := NewLLMClient(LLMConfig{})
	assert.Equal(t, "qwen2.5", cfg.ModelID)

	_, cfg = NewLLMClient(LLMConfig{Provider: "openai", APIKey: "sk-test", ModelID: "gpt-4o-mini"})
	assert.Equal(t, "gpt-4o-mini", cfg.ModelID)
}

func TestParseSuggestions(t *testing.T) {
	candidates, err := parseSuggestions(`{"suggestions": ["happy", "heart"]}`, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "happy", candidates[0].Value)
	assert.Equal(t, "heart", candidates[1].Value)
}

func TestParseSuggestionsDropsEmptyEntries(t *testing.T) {
	candidates, err := parseSuggestions(`{"suggestions": ["", "ok", ""]}`, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ok", candidates[0].Value)
}

func TestParseSuggestionsAppliesLimit(t *testing.T) {
	candidates, err := parseSuggestions(`{"suggestions": ["a", "b", "c"]}`, 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestParseSuggestionsMalformedJSON(t *testing.T) {
	_, err := parseSuggestions(`not json`, 0)
	assert.Error(t, err)

	candidates, err := parseSuggestions(`{}`, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
