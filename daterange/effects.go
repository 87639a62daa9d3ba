package daterange

import (
	tea "github.com/charmbracelet/bubbletea"

	"tuikit.dev/almanac/dateutil"
)

// Effect is a deferred imperative side effect requested by a state
// transition and consumed after the update completes. Keeping these out of
// the handlers leaves the state machine independently testable.
type Effect struct {
	// FocusField requests keyboard focus on one boundary's text field.
	FocusField dateutil.Boundary
	// SelectAll additionally puts the cursor over the field text.
	SelectAll bool
}

// requestFocusEffect queues a focus request for the next effect flush.
func (m *Model) requestFocusEffect(b dateutil.Boundary) {
	m.pendingEffects = append(m.pendingEffects, Effect{
		FocusField: b,
		SelectAll:  m.selectAfterUpdate,
	})
	m.selectAfterUpdate = false
}

// applyEffects flushes pending focus requests onto the text inputs. A
// request targeting an already-focused field is dropped (re-entrancy
// guard), so focus transitions never fight each other.
func (m *Model) applyEffects() tea.Cmd {
	if len(m.pendingEffects) == 0 {
		return nil
	}

	var cmds []tea.Cmd
	for _, eff := range m.pendingEffects {
		target := m.fields.Ptr(eff.FocusField)
		other := m.fields.Ptr(eff.FocusField.Other())

		other.Blur()
		if !target.Focused() {
			cmds = append(cmds, target.Focus())
		}
		if eff.SelectAll {
			target.CursorEnd()
		}
	}

	m.lastEffects = m.pendingEffects
	m.pendingEffects = nil
	return tea.Batch(cmds...)
}
