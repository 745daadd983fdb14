// Package sources provides ready-made candidate data sources for the
// typeahead widget. Every source exposes a Fetch method compatible with
// typeahead.Trigger.
package sources

import (
	"context"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

// StaticSource serves a fixed candidate list, fuzzy-ranked against the typed
// token.
type StaticSource struct {
	items  []typeahead.Candidate
	values []string
	limit  int
}

// NewStaticSource builds a source over a fixed candidate list. limit caps the
// number of results per fetch; 0 means no cap.
func NewStaticSource(items []typeahead.Candidate, limit int) *StaticSource {
	return &StaticSource{
		items: items,
		values: lo.Map(items, func(c typeahead.Candidate, _ int) string {
			return c.Value
		}),
		limit: limit,
	}
}

// Fetch returns candidates matching the token, best matches first. An empty
// token returns the list in its configured order.
func (s *StaticSource) Fetch(_ context.Context, token string) ([]typeahead.Candidate, error) {
	if token == "" {
		return s.capped(s.items), nil
	}

	matches := fuzzy.Find(token, s.values)
	out := lo.Map(matches, func(m fuzzy.Match, _ int) typeahead.Candidate {
		return s.items[m.Index]
	})
	return s.capped(out), nil
}

func (s *StaticSource) capped(items []typeahead.Candidate) []typeahead.Candidate {
	if s.limit > 0 && len(items) > s.limit {
		return items[:s.limit]
	}
	return items
}
