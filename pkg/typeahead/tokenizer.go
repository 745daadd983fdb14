package typeahead

import "unicode/utf8"

// tokenMatch describes the trigger token found immediately before the caret.
type tokenMatch struct {
	trigger rune
	token   string // the partial token typed after the trigger character
	start   int    // rune offset of the trigger character
}

// matchToken finds the trigger token ending exactly at the caret. The run
// (trigger character plus token) must be longer than minChar to count as a
// match.
func (s *TriggerSet) matchToken(value []rune, caret int, minChar int) (tokenMatch, bool) {
	if caret < 0 || caret > len(value) {
		return tokenMatch{}, false
	}

	prefix := string(value[:caret])
	loc := s.pattern.FindStringSubmatchIndex(prefix)
	if loc == nil {
		return tokenMatch{}, false
	}

	trigger, _ := utf8.DecodeRuneInString(prefix[loc[2]:])
	token := prefix[loc[4]:loc[5]]

	if 1+utf8.RuneCountInString(token) <= minChar {
		return tokenMatch{}, false
	}

	return tokenMatch{
		trigger: trigger,
		token:   token,
		start:   utf8.RuneCountInString(prefix[:loc[2]]),
	}, true
}
