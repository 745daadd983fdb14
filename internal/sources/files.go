package sources

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

const maxScannedFiles = 2000

// FileSource serves paths under a root directory for "@path" style mentions.
// Paths are collected relative to the root and fuzzy-ranked against the
// typed token.
type FileSource struct {
	root  string
	limit int
}

// NewFileSource builds a file mention source rooted at the given directory.
func NewFileSource(root string, limit int) *FileSource {
	return &FileSource{root: root, limit: limit}
}

// Fetch walks the root (bounded, hidden directories skipped) and returns the
// paths best matching the token.
func (s *FileSource) Fetch(ctx context.Context, token string) ([]typeahead.Candidate, error) {
	paths, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	var ranked []string
	if token == "" {
		ranked = paths
	} else {
		matches := fuzzy.Find(token, paths)
		ranked = make([]string, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, paths[m.Index])
		}
	}

	if s.limit > 0 && len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	out := make([]typeahead.Candidate, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, typeahead.Candidate{Value: p})
	}
	return out, nil
}

func (s *FileSource) collect(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than failing the fetch.
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(paths) >= maxScannedFiles {
			return filepath.SkipAll
		}

		name := d.Name()
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}
