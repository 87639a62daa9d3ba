// Package gallery is the interactive demo shell: a date-range picker wired
// to persisted selection history and live-reloading settings.
package gallery

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tuikit.dev/almanac/daterange"
	"tuikit.dev/almanac/dateutil"
	"tuikit.dev/almanac/internal/config"
	"tuikit.dev/almanac/internal/history"
	"tuikit.dev/almanac/internal/logger"
	"tuikit.dev/almanac/suggest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	errStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

// settingsReloadedMsg carries settings picked up from disk.
type settingsReloadedMsg struct {
	settings config.Settings
}

// Model is the gallery application state.
type Model struct {
	picker   *daterange.Model
	sel      *suggest.Model
	settings config.Settings

	store   *history.Store
	watcher *SettingsWatcher

	// recentByLabel maps suggest labels back to stored selections.
	recentByLabel map[string]history.Selection

	showSelector bool
	status       string
	statusErr    bool
	quitting     bool
}

// New builds the gallery from settings. store and watcher may be nil;
// history and live reload are then disabled.
func New(settings config.Settings, store *history.Store, watcher *SettingsWatcher) (*Model, error) {
	m := &Model{
		settings: settings,
		store:    store,
		watcher:  watcher,
	}

	picker, err := daterange.New(m.pickerOptions(settings, nil))
	if err != nil {
		return nil, fmt.Errorf("building picker: %w", err)
	}
	m.picker = picker

	return m, nil
}

// pickerOptions maps file settings onto picker options. keep carries the
// current selection across a rebuild.
func (m *Model) pickerOptions(s config.Settings, keep *dateutil.Range) daterange.Options {
	opts := daterange.Options{
		DefaultValue:             keep,
		AllowSingleDayRange:      s.AllowSingleDayRange,
		CloseOnSelection:         s.CloseOnSelection,
		SelectAllOnFocus:         s.SelectAllOnFocus,
		SingleMonthOnly:          s.SingleMonthOnly,
		ContiguousCalendarMonths: s.ContiguousCalendarMonths,
		OnChange:                 m.noteChange,
		OnError:                  m.noteError,
	}

	opts.MinDate, opts.MaxDate = s.Bounds()

	if s.TimePrecision == "minute" {
		opts.TimePrecision = daterange.PrecisionMinute
	}

	if layout := s.DateFormat; layout != "" {
		opts.FormatDate = func(t time.Time) string { return t.Format(layout) }
	}

	if len(s.Shortcuts) > 0 {
		today := dateutil.StartOfDay(time.Now())
		for _, sc := range s.Shortcuts {
			opts.Shortcuts = append(opts.Shortcuts, daterange.Shortcut{
				Label: sc.Label,
				Value: dateutil.Range{Start: today.AddDate(0, 0, -sc.DaysBack), End: today},
			})
		}
	}

	return opts
}

func (m *Model) noteChange(r dateutil.Range) {
	m.status = "selected " + describeRange(r)
	if !r.End.IsZero() {
		m.status += " (ends " + dateutil.DescribeDay(r.End) + ")"
	}
	m.statusErr = false
	logger.Debug("range changed", "start", r.Start, "end", r.End)
}

func (m *Model) noteError(r dateutil.Range) {
	m.status = "rejected " + describeRange(r)
	m.statusErr = true
	logger.Debug("range rejected", "start", r.Start, "end", r.End)
}

func describeRange(r dateutil.Range) string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "…"
		}
		return dateutil.DefaultFormatDate(t)
	}
	return format(r.Start) + " → " + format(r.End)
}

// Init starts the picker and, when configured, the settings reload loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.awaitSettings())
}

// awaitSettings blocks on the watcher channel inside a command.
func (m *Model) awaitSettings() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.watcher.Done():
			return nil
		case s := <-m.watcher.Changes():
			return settingsReloadedMsg{settings: s}
		}
	}
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsReloadedMsg:
		m.applySettings(msg.settings)
		return m, m.awaitSettings()

	case suggest.SelectedMsg:
		m.showSelector = false
		if sel, ok := m.recentByLabel[msg.Item.Label]; ok {
			m.applyRecent(sel)
		}
		return m, nil

	case suggest.DismissedMsg:
		m.showSelector = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+r":
			m.recordSelection()
			return m, nil

		case "ctrl+h":
			return m, m.openSelector()
		}

		if m.showSelector {
			var cmd tea.Cmd
			m.sel, cmd = m.sel.Update(msg)
			return m, cmd
		}

		if msg.String() == "q" {
			if _, focused := m.picker.FocusedBoundary(); !focused && !m.picker.IsOpen() {
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// applySettings rebuilds the picker under new settings, carrying the
// current selection over.
func (m *Model) applySettings(s config.Settings) {
	keep := m.picker.Value()

	picker, err := daterange.New(m.pickerOptions(s, &keep))
	if err != nil {
		m.status = "settings rejected: " + err.Error()
		m.statusErr = true
		return
	}

	m.settings = s
	m.picker = picker
	m.status = "settings reloaded"
	m.statusErr = false
	logger.Info("picker rebuilt from settings")
}

// recordSelection saves the current range to history.
func (m *Model) recordSelection() {
	if m.store == nil {
		m.status = "history is disabled"
		m.statusErr = true
		return
	}

	value := m.picker.Value()
	if value.IsEmpty() {
		m.status = "nothing selected to save"
		m.statusErr = true
		return
	}

	label := describeRange(value)
	if _, err := m.store.Record(value, label); err != nil {
		m.status = "save failed: " + err.Error()
		m.statusErr = true
		logger.Error("history record failed", "error", err)
		return
	}

	if limit := m.settings.HistoryLimit; limit > 0 {
		if err := m.store.Prune(limit); err != nil {
			logger.Warn("history prune failed", "error", err)
		}
	}
	m.status = "saved " + label
	m.statusErr = false
}

// openSelector loads recent selections into the suggest widget.
func (m *Model) openSelector() tea.Cmd {
	if m.store == nil {
		m.status = "history is disabled"
		m.statusErr = true
		return nil
	}

	recent, err := m.store.Recent(20)
	if err != nil {
		m.status = "history load failed: " + err.Error()
		m.statusErr = true
		return nil
	}
	if len(recent) == 0 {
		m.status = "no saved selections yet"
		m.statusErr = false
		return nil
	}

	m.recentByLabel = make(map[string]history.Selection, len(recent))
	items := make([]suggest.Item, 0, len(recent))
	for _, sel := range recent {
		label := sel.Label
		if label == "" {
			label = describeRange(sel.Value)
		}
		m.recentByLabel[label] = sel
		items = append(items, suggest.Item{
			Label:   label,
			Details: "picked " + sel.SelectedAt.Format("2006-01-02 15:04"),
		})
	}

	m.picker.Blur()
	m.sel = suggest.New("Recent selections", items)
	m.showSelector = true
	return m.sel.Focus()
}

// applyRecent pushes a remembered selection back into the picker.
func (m *Model) applyRecent(sel history.Selection) {
	picker, err := daterange.New(m.pickerOptions(m.settings, &sel.Value))
	if err != nil {
		m.status = "restore failed: " + err.Error()
		m.statusErr = true
		return
	}
	m.picker = picker
	m.status = "restored " + describeRange(sel.Value)
	m.statusErr = false
}

// View renders the gallery.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.picker.View()
	if m.showSelector && m.sel != nil {
		body = m.sel.View()
	}

	status := ""
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errStatusStyle
		}
		status = style.Render(m.status)
	}

	help := helpStyle.Render("tab: next field • enter: commit • esc: close • ctrl+r: save • ctrl+h: history • ctrl+c: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("almanac"),
		body,
		status,
		help,
	)
}
