package typeahead

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// candidatesMsg delivers a settled fetch back to the event loop. The request
// ID identifies which token update issued the fetch; resolutions carrying a
// stale ID are discarded so that out-of-order settlement can never overwrite
// newer state.
type candidatesMsg struct {
	requestID int
	trigger   rune
	token     string
	items     []Candidate
}

// fetchErrMsg reports a failed fetch. A failing data source is a host
// programming error, not a transient condition: the error surfaces through
// Model.Err and nothing is retried.
type fetchErrMsg struct {
	requestID int
	trigger   rune
	token     string
	err       error
}

func (m *Model) fetchCmd(t Trigger, trigger rune, token string, requestID int) tea.Cmd {
	return func() tea.Msg {
		items, err := t.Fetch(context.Background(), token)
		if err != nil {
			return fetchErrMsg{requestID: requestID, trigger: trigger, token: token, err: err}
		}
		return candidatesMsg{requestID: requestID, trigger: trigger, token: token, items: items}
	}
}

func (m Model) handleCandidates(msg candidatesMsg) (Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		m.logger.Debug(
			"typeahead discarding stale candidates",
			zap.Int("requestID", msg.requestID),
			zap.Int("currentRequestID", m.requestID),
			zap.String("token", msg.token),
		)
		return m, nil
	}

	if !m.session.active() {
		return m, nil
	}

	if len(msg.items) == 0 {
		m.closeSession()
		return m, nil
	}

	m.session.open(msg.items)
	return m, nil
}

func (m Model) handleFetchErr(msg fetchErrMsg) (Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		m.logger.Debug(
			"typeahead discarding stale fetch error",
			zap.Int("requestID", msg.requestID),
			zap.Int("currentRequestID", m.requestID),
		)
		return m, nil
	}

	m.session.loading = false
	m.Err = fmt.Errorf("candidate fetch for trigger %q and token %q failed: %w", msg.trigger, msg.token, msg.err)
	m.logger.Error(
		"typeahead candidate fetch failed",
		zap.String("trigger", string(msg.trigger)),
		zap.String("token", msg.token),
		zap.Error(msg.err),
	)
	return m, nil
}
