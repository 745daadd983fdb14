package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

func TestStaticSourceFuzzyRanking(t *testing.T) {
	source := NewStaticSource([]typeahead.Candidate{
		{Value: "heart"},
		{Value: "happy"},
		{Value: "fire"},
	}, 0)

	candidates, err := source.Fetch(context.Background(), "ha")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	// "happy" contains the token as a leading run and ranks above "heart".
	assert.Equal(t, "happy", candidates[0].Value)
	assert.Equal(t, "heart", candidates[1].Value)
}

func TestStaticSourceEmptyTokenReturnsAll(t *testing.T) {
	source := NewStaticSource([]typeahead.Candidate{
		{Value: "a"},
		{Value: "b"},
	}, 0)

	candidates, err := source.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestStaticSourceLimit(t *testing.T) {
	source := NewStaticSource([]typeahead.Candidate{
		{Value: "aa"},
		{Value: "ab"},
		{Value: "ac"},
	}, 2)

	candidates, err := source.Fetch(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	candidates, err = source.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestStaticSourceNoMatches(t *testing.T) {
	source := NewStaticSource([]typeahead.Candidate{{Value: "happy"}}, 0)

	candidates, err := source.Fetch(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestStaticSourcePreservesCandidateMetadata(t *testing.T) {
	source := NewStaticSource([]typeahead.Candidate{
		{Value: "happy", Display: "😄 happy", Description: "😄"},
	}, 0)

	candidates, err := source.Fetch(context.Background(), "hap")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "😄 happy", candidates[0].Display)
	assert.Equal(t, "😄", candidates[0].Description)
}
