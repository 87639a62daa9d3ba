// Package suggest implements a type-ahead selector: a text input whose
// value fuzzy-filters a fixed item list, with keyboard selection.
package suggest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

var (
	suggestTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12"))

	suggestSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("4")).
				Bold(true)

	suggestNormalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7"))

	suggestDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	suggestMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Underline(true)
)

// Item is a selectable entry.
type Item struct {
	Label   string
	Details string
}

// SelectedMsg is emitted when the user confirms an item.
type SelectedMsg struct {
	Item Item
}

// DismissedMsg is emitted when the user cancels the selector.
type DismissedMsg struct{}

// items adapts []Item to fuzzy.Source.
type items []Item

func (s items) String(i int) string { return s[i].Label }
func (s items) Len() int            { return len(s) }

// Model is the type-ahead selector state.
type Model struct {
	title         string
	all           items
	matches       fuzzy.Matches
	searchInput   textinput.Model
	selectedIndex int
	maxVisible    int
}

// New creates a selector over the given items.
func New(title string, list []Item) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 100

	m := &Model{
		title:       title,
		all:         items(list),
		searchInput: ti,
		maxVisible:  10,
	}
	m.filter()
	return m
}

// Focus gives the selector keyboard control.
func (m *Model) Focus() tea.Cmd {
	return m.searchInput.Focus()
}

// Blur releases keyboard control.
func (m *Model) Blur() {
	m.searchInput.Blur()
}

// Focused reports whether the selector has keyboard control.
func (m *Model) Focused() bool {
	return m.searchInput.Focused()
}

// Query returns the current filter text.
func (m *Model) Query() string {
	return m.searchInput.Value()
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.searchInput.Focused() {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil

		case "down":
			if m.selectedIndex < len(m.matches)-1 {
				m.selectedIndex++
			}
			return m, nil

		case "enter":
			selected := m.Selected()
			if selected == nil {
				return m, nil
			}
			captured := *selected
			return m, func() tea.Msg {
				return SelectedMsg{Item: captured}
			}

		case "esc":
			m.Blur()
			return m, func() tea.Msg {
				return DismissedMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter()
	return m, cmd
}

// filter recomputes the match list for the current query.
func (m *Model) filter() {
	query := strings.TrimSpace(m.searchInput.Value())

	if query == "" {
		// No query: every item matches, in original order.
		m.matches = make(fuzzy.Matches, len(m.all))
		for i := range m.all {
			m.matches[i] = fuzzy.Match{Str: m.all[i].Label, Index: i}
		}
	} else {
		m.matches = fuzzy.FindFrom(query, m.all)
	}

	if m.selectedIndex >= len(m.matches) {
		m.selectedIndex = 0
	}
}

// Selected returns the highlighted item, or nil when the list is empty.
func (m *Model) Selected() *Item {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.matches) {
		return nil
	}
	item := m.all[m.matches[m.selectedIndex].Index]
	return &item
}

// Matches returns how many items pass the current filter.
func (m *Model) Matches() int {
	return len(m.matches)
}

// View renders the selector.
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(suggestTitleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.searchInput.View())
	sb.WriteString("\n\n")

	if len(m.matches) == 0 {
		sb.WriteString(suggestDimStyle.Render("No matches"))
	} else {
		visible := len(m.matches)
		if visible > m.maxVisible {
			visible = m.maxVisible
		}

		for i := 0; i < visible; i++ {
			match := m.matches[i]
			item := m.all[match.Index]

			var line string
			if i == m.selectedIndex {
				line = suggestSelectedStyle.Render("▶ " + item.Label)
			} else {
				line = suggestNormalStyle.Render("  " + highlightMatch(item.Label, match.MatchedIndexes))
			}
			if item.Details != "" {
				line += suggestDimStyle.Render(" " + item.Details)
			}

			sb.WriteString(line)
			sb.WriteString("\n")
		}

		if len(m.matches) > visible {
			sb.WriteString(suggestDimStyle.Render(fmt.Sprintf("\n... and %d more", len(m.matches)-visible)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(suggestDimStyle.Render("↑/↓: navigate • enter: select • esc: cancel"))

	return sb.String()
}

// highlightMatch underlines the matched runes of a label.
func highlightMatch(label string, indexes []int) string {
	if len(indexes) == 0 {
		return label
	}

	matched := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matched[idx] = true
	}

	var sb strings.Builder
	for i, r := range label {
		if matched[i] {
			sb.WriteString(suggestMatchStyle.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
