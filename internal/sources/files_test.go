package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root string, parts ...string) {
	t.Helper()

	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFileSourceListsRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go")
	writeTestFile(t, root, "docs", "readme.md")

	source := NewFileSource(root, 0)
	candidates, err := source.Fetch(context.Background(), "")
	require.NoError(t, err)

	values := make([]string, 0, len(candidates))
	for _, c := range candidates {
		values = append(values, c.Value)
	}
	assert.ElementsMatch(t, []string{"main.go", "docs/readme.md"}, values)
}

func TestFileSourceFuzzyMatchesToken(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go")
	writeTestFile(t, root, "main_test.go")
	writeTestFile(t, root, "readme.md")

	source := NewFileSource(root, 0)
	candidates, err := source.Fetch(context.Background(), "main")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.Contains(t, c.Value, "main")
	}
}

func TestFileSourceSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "visible.go")
	writeTestFile(t, root, ".hidden")
	writeTestFile(t, root, ".git", "config")

	source := NewFileSource(root, 0)
	candidates, err := source.Fetch(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "visible.go", candidates[0].Value)
}

func TestFileSourceLimit(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.go")
	writeTestFile(t, root, "b.go")
	writeTestFile(t, root, "c.go")

	source := NewFileSource(root, 2)
	candidates, err := source.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestFileSourceCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewFileSource(root, 0)
	_, err := source.Fetch(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
