package typeahead

// ChangeEvent describes a content change reported to the host. Synthetic is
// true when the change came from an accepted suggestion rather than a raw
// keystroke; the payload shape is the same either way.
type ChangeEvent struct {
	Value     string
	Synthetic bool
}

func (m *Model) notifyChange(synthetic bool) {
	if m.onChange != nil {
		m.onChange(ChangeEvent{Value: m.Value(), Synthetic: synthetic})
	}
}

func (m *Model) notifyCaret() {
	if m.onCaretChange != nil {
		m.onCaretChange(m.pos)
	}
}
