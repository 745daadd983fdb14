/*
The editing model in this file is forked from the textinput component from
github.com/charmbracelet/bubbles

# MIT License

# Copyright (c) 2020-2023 Charmbracelet, Inc

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package typeahead provides a multi-line text input for Bubble Tea programs
// with inline, trigger-activated autocomplete. Typing a configured trigger
// character (for example "@" or ":") opens a suggestion session: the
// trigger's data source is queried asynchronously for candidates, the
// resolved list is rendered next to the caret, and accepting a candidate
// splices its formatted replacement over the typed token.
package typeahead

import (
	"fmt"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Internal messages for clipboard operations.
type (
	pasteMsg    string
	pasteErrMsg struct{ error }
)

// KeyMap is the key bindings for different actions within the input.
type KeyMap struct {
	CharacterForward        key.Binding
	CharacterBackward       key.Binding
	WordForward             key.Binding
	WordBackward            key.Binding
	LineUp                  key.Binding
	LineDown                key.Binding
	LineStart               key.Binding
	LineEnd                 key.Binding
	DeleteCharacterBackward key.Binding
	DeleteCharacterForward  key.Binding
	DeleteWordBackward      key.Binding
	InsertNewline           key.Binding
	Paste                   key.Binding
	AcceptCandidate         key.Binding
	NextCandidate           key.Binding
	PrevCandidate           key.Binding
	Cancel                  key.Binding
}

// DefaultKeyMap is the default set of key bindings for navigating the input
// and the suggestion list.
var DefaultKeyMap = KeyMap{
	CharacterForward:        key.NewBinding(key.WithKeys("right", "ctrl+f")),
	CharacterBackward:       key.NewBinding(key.WithKeys("left", "ctrl+b")),
	WordForward:             key.NewBinding(key.WithKeys("alt+right", "alt+f")),
	WordBackward:            key.NewBinding(key.WithKeys("alt+left", "alt+b")),
	LineUp:                  key.NewBinding(key.WithKeys("up", "ctrl+p")),
	LineDown:                key.NewBinding(key.WithKeys("down", "ctrl+n")),
	LineStart:               key.NewBinding(key.WithKeys("home", "ctrl+a")),
	LineEnd:                 key.NewBinding(key.WithKeys("end", "ctrl+e")),
	DeleteCharacterBackward: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	DeleteCharacterForward:  key.NewBinding(key.WithKeys("delete")),
	DeleteWordBackward:      key.NewBinding(key.WithKeys("alt+backspace", "ctrl+w")),
	InsertNewline:           key.NewBinding(key.WithKeys("enter")),
	Paste:                   key.NewBinding(key.WithKeys("ctrl+v")),
	AcceptCandidate:         key.NewBinding(key.WithKeys("enter", "tab")),
	NextCandidate:           key.NewBinding(key.WithKeys("down", "ctrl+n")),
	PrevCandidate:           key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Cancel:                  key.NewBinding(key.WithKeys("esc")),
}

// Config is the constructor surface of the widget. Triggers and
// LoadingComponent are mandatory; everything else has a usable default.
type Config struct {
	// Triggers maps a trigger character to its data source and formatting.
	Triggers map[rune]Trigger

	// LoadingComponent renders the loading slot while a fetch is in flight.
	LoadingComponent func() string

	// MinChar suppresses a session until the token run is longer than this
	// many characters. Must be >= 0. The zero value means no suppression;
	// a plain Config literal bypasses the default of 1, which only
	// NewConfig applies.
	MinChar int

	// Value is the initial buffer content.
	Value string

	// OnChange is invoked on every raw edit and once more synthetically
	// after an accepted suggestion is spliced in.
	OnChange func(ChangeEvent)

	// OnCaretChange is invoked after any caret repositioning.
	OnCaretChange func(offset int)

	// OnSelect is invoked after a candidate has been accepted and spliced
	// into the buffer.
	OnSelect func(trigger rune, c Candidate)

	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// NewConfig returns a Config with the default minimum token threshold.
func NewConfig() Config {
	return Config{MinChar: 1}
}

// Model is the Bubble Tea model for this text input element.
type Model struct {
	Err error

	Cursor cursor.Model
	KeyMap KeyMap

	// Width marks the horizontal boundary for this component to render
	// within. If 0 or less this setting is ignored.
	Width int

	// Styles. These will be applied as inline styles.
	TextStyle        lipgloss.Style
	SuggestionStyle  lipgloss.Style
	SelectedStyle    lipgloss.Style
	DescriptionStyle lipgloss.Style
	LoadingStyle     lipgloss.Style

	triggers         *TriggerSet
	loadingComponent func() string
	minChar          int
	onChange         func(ChangeEvent)
	onCaretChange    func(int)
	onSelect         func(rune, Candidate)
	logger           *zap.Logger

	focus bool
	value []rune
	pos   int

	session   session
	requestID int

	// rune sanitizer for input.
	rsan runeutil.Sanitizer
}

// New validates the configuration and builds the widget. Configuration
// problems are reported here, before the first render, and indicate host
// misuse rather than recoverable runtime states.
func New(cfg Config) (Model, error) {
	if cfg.LoadingComponent == nil {
		return Model{}, fmt.Errorf("typeahead: a loading component is required")
	}
	if cfg.MinChar < 0 {
		return Model{}, fmt.Errorf("typeahead: minChar must be >= 0, got %d", cfg.MinChar)
	}

	triggers, err := NewTriggerSet(cfg.Triggers)
	if err != nil {
		return Model{}, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		Cursor: cursor.New(),
		KeyMap: DefaultKeyMap,

		TextStyle:        lipgloss.NewStyle(),
		SuggestionStyle:  lipgloss.NewStyle(),
		SelectedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		DescriptionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		LoadingStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		triggers:         triggers,
		loadingComponent: cfg.LoadingComponent,
		minChar:          cfg.MinChar,
		onChange:         cfg.OnChange,
		onCaretChange:    cfg.OnCaretChange,
		onSelect:         cfg.OnSelect,
		logger:           logger,
	}
	m.session.reset()
	m.setValueInternal([]rune(cfg.Value))
	m.pos = len(m.value)

	return m, nil
}

// SetTriggers swaps in a new trigger set. The token pattern is part of the
// set, so this is the only point where it changes.
func (m *Model) SetTriggers(triggers *TriggerSet) {
	if triggers == nil {
		return
	}
	m.triggers = triggers
	m.closeSession()
}

// SetValue replaces the buffer content programmatically. Any active session
// is closed; no change notification fires since the host already knows the
// new value.
func (m *Model) SetValue(s string) {
	m.setValueInternal([]rune(s))
	if m.pos > len(m.value) {
		m.pos = len(m.value)
	}
	m.closeSession()
}

func (m *Model) setValueInternal(runes []rune) {
	m.value = m.san().Sanitize(runes)
}

// Value returns the buffer content.
func (m Model) Value() string {
	return string(m.value)
}

// Position returns the caret offset in runes.
func (m Model) Position() int {
	return m.pos
}

// SetCursor moves the caret to the given rune offset, clamped to the buffer.
func (m *Model) SetCursor(pos int) {
	m.pos = clamp(pos, 0, len(m.value))
}

// Focused returns the focus state on the model.
func (m Model) Focused() bool {
	return m.focus
}

// Focus sets the focus state on the model. When the model is in focus it can
// receive keyboard input and the cursor will be shown.
func (m *Model) Focus() tea.Cmd {
	m.focus = true
	return m.Cursor.Focus()
}

// Blur removes the focus state on the model and closes any active session.
func (m *Model) Blur() {
	m.focus = false
	m.Cursor.Blur()
	m.closeSession()
}

// SessionActive reports whether a suggestion session is open or pending.
func (m Model) SessionActive() bool {
	return m.session.active()
}

// Loading reports whether a candidate fetch is in flight.
func (m Model) Loading() bool {
	return m.session.active() && m.session.loading
}

// Candidates returns the currently resolved candidates, if any.
func (m Model) Candidates() []Candidate {
	if m.session.state != sessionOpen {
		return nil
	}
	return m.session.candidates
}

// SelectedIndex returns the index of the highlighted candidate, or -1.
func (m Model) SelectedIndex() int {
	if m.session.state != sessionOpen {
		return -1
	}
	return m.session.selected
}

// san initializes or retrieves the rune sanitizer. The buffer is multi-line,
// so newlines pass through and only tabs are collapsed.
func (m *Model) san() runeutil.Sanitizer {
	if m.rsan == nil {
		m.rsan = runeutil.NewSanitizer(runeutil.ReplaceTabs(" "))
	}
	return m.rsan
}

// Update is the Bubble Tea update loop.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case candidatesMsg:
		return m.handleCandidates(msg)

	case fetchErrMsg:
		return m.handleFetchErr(msg)

	case pasteMsg:
		if !m.focus {
			return m, nil
		}
		m.insertRunes([]rune(msg))
		m.notifyChange(false)
		m.notifyCaret()
		return m, m.refreshSession(true)

	case pasteErrMsg:
		m.Err = msg
		return m, nil

	case tea.KeyMsg:
		if !m.focus {
			return m, nil
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.Cursor, cmd = m.Cursor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Session-specific keys take precedence while a session is active.
	if m.session.active() {
		switch {
		case key.Matches(msg, m.KeyMap.Cancel):
			m.cancelSession()
			return m, nil
		case key.Matches(msg, m.KeyMap.AcceptCandidate):
			if m.acceptCurrent() {
				return m, nil
			}
		case key.Matches(msg, m.KeyMap.NextCandidate) && m.session.state == sessionOpen:
			m.session.nextCandidate()
			return m, nil
		case key.Matches(msg, m.KeyMap.PrevCandidate) && m.session.state == sessionOpen:
			m.session.prevCandidate()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.KeyMap.CharacterBackward):
		if m.pos > 0 {
			m.SetCursor(m.pos - 1)
			m.notifyCaret()
		}
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.CharacterForward):
		if m.pos < len(m.value) {
			m.SetCursor(m.pos + 1)
			m.notifyCaret()
		}
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.WordBackward):
		m.wordBackward()
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.WordForward):
		m.wordForward()
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.LineUp):
		m.lineUp()
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.LineDown):
		m.lineDown()
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.LineStart):
		start, _ := m.lineBounds(m.pos)
		m.SetCursor(start)
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.LineEnd):
		_, end := m.lineBounds(m.pos)
		m.SetCursor(end)
		m.notifyCaret()
		m.retargetSession()
	case key.Matches(msg, m.KeyMap.DeleteCharacterBackward):
		if m.pos > 0 {
			m.value = append(m.value[:m.pos-1], m.value[m.pos:]...)
			m.SetCursor(m.pos - 1)
			m.notifyChange(false)
			m.notifyCaret()
			return m, m.refreshSession(true)
		}
	case key.Matches(msg, m.KeyMap.DeleteCharacterForward):
		if m.pos < len(m.value) {
			m.value = append(m.value[:m.pos], m.value[m.pos+1:]...)
			m.notifyChange(false)
			return m, m.refreshSession(true)
		}
	case key.Matches(msg, m.KeyMap.DeleteWordBackward):
		if m.deleteWordBackward() {
			m.notifyChange(false)
			m.notifyCaret()
			return m, m.refreshSession(true)
		}
	case key.Matches(msg, m.KeyMap.InsertNewline):
		m.insertRunes([]rune{'\n'})
		m.notifyChange(false)
		m.notifyCaret()
		return m, m.refreshSession(true)
	case key.Matches(msg, m.KeyMap.Paste):
		return m, Paste
	case key.Matches(msg, m.KeyMap.Cancel):
		// No session to cancel; ignore.
	default:
		if len(msg.Runes) > 0 {
			m.insertRunes(msg.Runes)
			m.notifyChange(false)
			m.notifyCaret()
			return m, m.refreshSession(true)
		}
	}

	return m, nil
}

// insertRunes inserts sanitized input at the caret.
func (m *Model) insertRunes(v []rune) {
	paste := m.san().Sanitize(v)

	result := make([]rune, 0, len(m.value)+len(paste))
	result = append(result, m.value[:m.pos]...)
	result = append(result, paste...)
	result = append(result, m.value[m.pos:]...)

	m.value = result
	m.pos += len(paste)
}

// deleteWordBackward deletes the word left of the caret. Reports whether the
// buffer changed.
func (m *Model) deleteWordBackward() bool {
	if m.pos == 0 || len(m.value) == 0 {
		return false
	}

	i := m.pos
	for i > 0 && unicode.IsSpace(m.value[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(m.value[i-1]) {
		i--
	}

	m.value = append(m.value[:i], m.value[m.pos:]...)
	m.SetCursor(i)
	return true
}

// wordBackward moves the caret one word to the left.
func (m *Model) wordBackward() {
	i := m.pos
	for i > 0 && unicode.IsSpace(m.value[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(m.value[i-1]) {
		i--
	}
	m.SetCursor(i)
}

// wordForward moves the caret one word to the right.
func (m *Model) wordForward() {
	i := m.pos
	for i < len(m.value) && unicode.IsSpace(m.value[i]) {
		i++
	}
	for i < len(m.value) && !unicode.IsSpace(m.value[i]) {
		i++
	}
	m.SetCursor(i)
}

// lineBounds returns the rune offsets of the start and end of the line
// containing pos. The end offset points at the newline or the buffer end.
func (m Model) lineBounds(pos int) (int, int) {
	pos = clamp(pos, 0, len(m.value))

	start := pos
	for start > 0 && m.value[start-1] != '\n' {
		start--
	}

	end := pos
	for end < len(m.value) && m.value[end] != '\n' {
		end++
	}

	return start, end
}

func (m *Model) lineUp() {
	start, _ := m.lineBounds(m.pos)
	if start == 0 {
		return
	}
	col := m.pos - start
	prevStart, prevEnd := m.lineBounds(start - 1)
	m.SetCursor(min(prevStart+col, prevEnd))
}

func (m *Model) lineDown() {
	_, end := m.lineBounds(m.pos)
	if end >= len(m.value) {
		return
	}
	start, _ := m.lineBounds(m.pos)
	col := m.pos - start
	nextStart, nextEnd := m.lineBounds(end + 1)
	m.SetCursor(min(nextStart+col, nextEnd))
}

// CaretCoords returns the zero-based row and column of the caret, for
// anchoring the suggestion popup.
func (m Model) CaretCoords() (row, col int) {
	for i := 0; i < m.pos && i < len(m.value); i++ {
		if m.value[i] == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return row, col
}

// refreshSession re-evaluates the token at the caret after an edit and, when
// the token changed, issues a fresh fetch. Every token change refetches; any
// throttling belongs in the host's fetch function.
func (m *Model) refreshSession(allowOpen bool) tea.Cmd {
	match, ok := m.triggers.matchToken(m.value, m.pos, m.minChar)
	if !ok {
		if m.session.active() {
			m.closeSession()
		}
		return nil
	}

	sameRun := m.session.active() &&
		m.session.trigger == match.trigger &&
		m.session.start == match.start

	if sameRun && m.session.token == match.token {
		m.session.caret = m.pos
		return nil
	}

	if !allowOpen {
		// Pure caret movement never opens or retargets a session.
		if m.session.active() {
			m.closeSession()
		}
		return nil
	}

	trigger, found := m.triggers.Lookup(match.trigger)
	if !found {
		return nil
	}

	m.session.state = sessionPending
	m.session.trigger = match.trigger
	m.session.token = match.token
	m.session.start = match.start
	m.session.caret = m.pos
	m.session.candidates = nil
	m.session.selected = -1
	m.session.loading = true

	m.requestID++
	m.logger.Debug(
		"typeahead issuing candidate fetch",
		zap.String("trigger", string(match.trigger)),
		zap.String("token", match.token),
		zap.Int("requestID", m.requestID),
	)
	return m.fetchCmd(trigger, match.trigger, match.token, m.requestID)
}

// retargetSession closes the session if the caret no longer sits at the very
// token the session was opened for.
func (m *Model) retargetSession() {
	if !m.session.active() {
		return
	}
	_ = m.refreshSession(false)
}

// closeSession resets the session and invalidates in-flight fetches by
// bumping the request ID, so a late resolution can never reopen it.
func (m *Model) closeSession() {
	m.session.reset()
	m.requestID++
}

func (m *Model) cancelSession() {
	m.logger.Debug("typeahead session cancelled")
	m.closeSession()
}

// acceptCurrent splices the highlighted candidate over the matched token and
// notifies the host in the fixed order: content update, change notification,
// caret reposition, caret notification.
func (m *Model) acceptCurrent() bool {
	c, ok := m.session.current()
	if !ok {
		return false
	}
	trigger, found := m.triggers.Lookup(m.session.trigger)
	if !found {
		return false
	}

	triggerChar := m.session.trigger
	replacement := trigger.format(c, triggerChar)
	newValue, newCaret := spliceToken(m.value, m.session.caret, replacement)

	m.value = newValue
	m.closeSession()

	m.notifyChange(true)
	m.SetCursor(newCaret)
	m.notifyCaret()
	if m.onSelect != nil {
		m.onSelect(triggerChar, c)
	}
	return true
}

// Blink is a command used to initialize cursor blinking.
func Blink() tea.Msg {
	return cursor.Blink()
}

// Paste is a command for pasting from the clipboard into the text input.
func Paste() tea.Msg {
	str, err := clipboard.ReadAll()
	if err != nil {
		return pasteErrMsg{err}
	}
	return pasteMsg(str)
}

func clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
