package typeahead

import "unicode"

// spliceToken replaces the whitespace-delimited token around the recorded
// caret offset with the replacement text. The token end is found by scanning
// forward from the caret over non-whitespace; the start by scanning backward
// from that end over the contiguous run. The pair may differ from the token
// the session originally matched if the surrounding text shifted in the
// meantime, which is exactly why the boundaries are recomputed here.
//
// Returns the new buffer and the caret offset just after the replacement.
func spliceToken(value []rune, caret int, replacement string) ([]rune, int) {
	if caret < 0 {
		caret = 0
	}
	if caret > len(value) {
		caret = len(value)
	}

	end := caret
	for end < len(value) && !unicode.IsSpace(value[end]) {
		end++
	}

	start := end
	for start > 0 && !unicode.IsSpace(value[start-1]) {
		start--
	}

	repl := []rune(replacement)
	out := make([]rune, 0, len(value)-(end-start)+len(repl))
	out = append(out, value[:start]...)
	out = append(out, repl...)
	out = append(out, value[end:]...)

	return out, start + len(repl)
}
