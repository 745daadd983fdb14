package typeahead

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/wrap"
)

// View renders the text buffer with the caret.
func (m Model) View() string {
	styleText := m.TextStyle.Inline(true).Render

	value := m.value
	pos := clamp(m.pos, 0, len(value))

	v := styleText(string(value[:pos]))

	if pos < len(value) {
		char := string(value[pos])
		if char == "\n" {
			char = " "
		}
		m.Cursor.SetChar(char)
		v += m.Cursor.View()
		if value[pos] == '\n' {
			v += "\n"
		}
		v += styleText(string(value[pos+1:]))
	} else {
		m.Cursor.SetChar(" ")
		v += m.Cursor.View()
	}

	if m.Width > 0 {
		lines := strings.Split(v, "\n")
		for i, line := range lines {
			if ansi.PrintableRuneWidth(line) > m.Width {
				lines[i] = wrap.String(line, m.Width)
			}
		}
		v = strings.Join(lines, "\n")
	}

	return v
}

// SuggestionBoxView renders the candidate list for an open session, or the
// loading slot while a fetch is in flight. Returns "" when no session is
// active, so the host can collapse the popup entirely.
func (m Model) SuggestionBoxView(height int, width int) string {
	if !m.session.active() {
		return ""
	}

	if m.session.loading {
		return m.LoadingStyle.Inline(true).Render(m.loadingComponent())
	}

	if m.session.state != sessionOpen || len(m.session.candidates) == 0 {
		return ""
	}

	if height <= 0 {
		height = 4
	}

	trigger, ok := m.triggers.Lookup(m.session.trigger)
	if !ok {
		return ""
	}

	total := len(m.session.candidates)
	selected := m.session.selected
	if selected < 0 {
		selected = 0
	}

	// Page-based scrolling keeps the selected row visible.
	page := selected / height
	start := page * height

	maxCandidateWidth := 0
	for _, c := range m.session.candidates {
		w := ansi.PrintableRuneWidth(m.displayText(trigger, c))
		if w > maxCandidateWidth {
			maxCandidateWidth = w
		}
	}

	var content strings.Builder
	for r := 0; r < height; r++ {
		idx := start + r
		if idx >= total {
			break
		}

		c := m.session.candidates[idx]
		display := m.displayText(trigger, c)

		prefix := "  "
		style := m.SuggestionStyle
		if idx == m.session.selected {
			prefix = "> "
			style = m.SelectedStyle
		}

		item := prefix + style.Inline(true).Render(display)

		if c.Description != "" {
			padding := maxCandidateWidth - ansi.PrintableRuneWidth(display) + 2
			item += strings.Repeat(" ", padding)
			item += m.DescriptionStyle.Inline(true).Render(c.Description)
		}

		if width > 0 && ansi.PrintableRuneWidth(item) > width {
			item = truncateToWidth(item, width)
		}

		if r > 0 {
			content.WriteString("\n")
		}
		content.WriteString(item)
	}

	return content.String()
}

func (m Model) displayText(trigger Trigger, c Candidate) string {
	if c.Display != "" {
		return c.Display
	}
	return trigger.Render(c)
}

// truncateToWidth truncates a string to maxWidth display columns, skipping
// over ANSI escape sequences.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	var result strings.Builder
	width := 0
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			result.WriteRune(r)
			continue
		}
		if inEscape {
			result.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}

		rw := runewidth.RuneWidth(r)
		if width+rw > maxWidth {
			break
		}
		result.WriteRune(r)
		width += rw
	}

	return result.String()
}
