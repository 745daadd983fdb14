package typeahead

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Candidate is a single suggestion produced by a trigger's data source. The
// widget treats it as opaque except for rendering and formatting.
type Candidate struct {
	Value       string // the text the replacement is derived from
	Display     string // optional list display override
	Description string // optional annotation shown in the right column
	Raw         any    // source-specific payload
}

// Trigger configures the behavior of a single trigger character.
type Trigger struct {
	// Fetch returns candidates for the partial token typed after the
	// trigger character. It runs off the event loop and may block.
	Fetch func(ctx context.Context, token string) ([]Candidate, error)

	// Render returns the text shown for a candidate in the suggestion list.
	Render func(c Candidate) string

	// Format returns the replacement text spliced into the buffer when a
	// candidate is accepted. When nil, the candidate value is wrapped in
	// the trigger character on both sides.
	Format func(c Candidate, trigger rune) string
}

func (t Trigger) format(c Candidate, trigger rune) string {
	if t.Format != nil {
		return t.Format(c, trigger)
	}
	return string(trigger) + c.Value + string(trigger)
}

// TriggerSet is a validated trigger table together with its compiled token
// pattern. The pattern is built once at construction; changing triggers means
// swapping in a new set, so nothing is re-derived per keystroke.
type TriggerSet struct {
	table   map[rune]Trigger
	pattern *regexp.Regexp
}

// NewTriggerSet validates the trigger table and compiles the combined token
// pattern. Each trigger is keyed by a single character and must provide both
// a fetch and a render function.
func NewTriggerSet(table map[rune]Trigger) (*TriggerSet, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("typeahead: trigger table must contain at least one trigger")
	}

	var class strings.Builder
	for r, t := range table {
		if t.Fetch == nil {
			return nil, fmt.Errorf("typeahead: trigger %q has no fetch function", r)
		}
		if t.Render == nil {
			return nil, fmt.Errorf("typeahead: trigger %q has no render function", r)
		}
		// Hex escapes are unambiguous inside a character class no matter
		// which trigger characters are configured.
		fmt.Fprintf(&class, `\x{%x}`, r)
	}

	pattern, err := regexp.Compile(`([` + class.String() + `])(\w*)$`)
	if err != nil {
		return nil, fmt.Errorf("typeahead: compiling trigger pattern: %w", err)
	}

	return &TriggerSet{table: table, pattern: pattern}, nil
}

// Lookup returns the trigger configured for the given character.
func (s *TriggerSet) Lookup(r rune) (Trigger, bool) {
	t, ok := s.table[r]
	return t, ok
}
