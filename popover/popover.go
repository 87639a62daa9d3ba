// Package popover implements a minimal open/close overlay for Bubble Tea
// widgets: a target line rendered in flow, with bordered content beneath it
// while open. There is no positioning engine; terminal layout is linear.
package popover

import (
	"github.com/charmbracelet/lipgloss"
)

var contentStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("39")).
	Padding(0, 1)

// Model holds popover visibility state.
type Model struct {
	open bool
}

// New creates a closed popover.
func New() Model {
	return Model{}
}

// Open shows the popover content.
func (m *Model) Open() {
	m.open = true
}

// Close hides the popover content.
func (m *Model) Close() {
	m.open = false
}

// Toggle flips visibility.
func (m *Model) Toggle() {
	m.open = !m.open
}

// IsOpen reports whether the content is visible.
func (m Model) IsOpen() bool {
	return m.open
}

// View renders the target followed by the content when open. Target and
// content are produced by the host; the popover only does layout.
func (m Model) View(target, content string) string {
	if !m.open || content == "" {
		return target
	}
	return lipgloss.JoinVertical(lipgloss.Left, target, contentStyle.Render(content))
}
