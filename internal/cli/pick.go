package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"tuikit.dev/almanac/daterange"
	"tuikit.dev/almanac/dateutil"
	"tuikit.dev/almanac/internal/logger"
)

var (
	pickFromFlag        string
	pickToFlag          string
	pickInteractiveFlag bool
	pickSaveFlag        bool
)

// pickCmd selects a date range and prints it to stdout, for use in shell
// pipelines.
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a date range and print it",
	Long: `Pick a date range and print it as two YYYY-MM-DD dates on one line.

With --from/--to the range is validated and printed without a TUI.
With --interactive a form asks for picker options first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pickFromFlag != "" || pickToFlag != "" {
			return runNonInteractivePick(cmd)
		}

		opts := daterange.Options{CloseOnSelection: true}
		if pickInteractiveFlag {
			var err error
			opts, err = runPickOptionsForm()
			if err != nil {
				return err
			}
		}

		value, err := runPicker(opts)
		if err != nil {
			return err
		}
		if value.IsEmpty() {
			return fmt.Errorf("no range selected")
		}

		if pickSaveFlag {
			if err := saveToHistory(value); err != nil {
				logger.Warn("could not save selection", "error", err)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), formatPicked(value))
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVar(&pickFromFlag, "from", "", "start date (skips the TUI)")
	pickCmd.Flags().StringVar(&pickToFlag, "to", "", "end date (skips the TUI)")
	pickCmd.Flags().BoolVarP(&pickInteractiveFlag, "interactive", "i", false, "ask for picker options first")
	pickCmd.Flags().BoolVar(&pickSaveFlag, "save", false, "record the picked range in history")
}

// runNonInteractivePick validates flag-supplied dates against the picker's
// own rules and prints the range.
func runNonInteractivePick(cmd *cobra.Command) error {
	var value dateutil.Range
	if pickFromFlag != "" {
		start, ok := dateutil.DefaultParseDate(pickFromFlag)
		if !ok {
			return fmt.Errorf("--from: unparseable date %q", pickFromFlag)
		}
		value.Start = start
	}
	if pickToFlag != "" {
		end, ok := dateutil.DefaultParseDate(pickToFlag)
		if !ok {
			return fmt.Errorf("--to: unparseable date %q", pickToFlag)
		}
		value.End = end
	}

	if value.IsComplete() && dateutil.DayAfter(value.Start, value.End) {
		return fmt.Errorf("range is reversed: %s falls after %s", pickFromFlag, pickToFlag)
	}

	if pickSaveFlag {
		if err := saveToHistory(value); err != nil {
			logger.Warn("could not save selection", "error", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatPicked(value))
	return nil
}

// runPickOptionsForm asks for picker options interactively.
func runPickOptionsForm() (daterange.Options, error) {
	var (
		singleDay  bool
		closeOnSel = true
		precision  = "day"
		minDate    string
		maxDate    string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow single-day ranges?").
				Value(&singleDay),
			huh.NewConfirm().
				Title("Close the calendar after a full selection?").
				Value(&closeOnSel),
			huh.NewSelect[string]().
				Title("Precision").
				Options(
					huh.NewOption("Day", "day"),
					huh.NewOption("Day and time", "minute"),
				).
				Value(&precision),
			huh.NewInput().
				Title("Earliest selectable date (optional)").
				Placeholder("YYYY-MM-DD").
				Value(&minDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Latest selectable date (optional)").
				Placeholder("YYYY-MM-DD").
				Value(&maxDate).
				Validate(validateOptionalDate),
		),
	)

	if err := form.Run(); err != nil {
		return daterange.Options{}, fmt.Errorf("form cancelled: %w", err)
	}

	opts := daterange.Options{
		AllowSingleDayRange: singleDay,
		CloseOnSelection:    closeOnSel,
	}
	if precision == "minute" {
		opts.TimePrecision = daterange.PrecisionMinute
	}
	if minDate != "" {
		opts.MinDate, _ = dateutil.DefaultParseDate(minDate)
	}
	if maxDate != "" {
		opts.MaxDate, _ = dateutil.DefaultParseDate(maxDate)
	}
	return opts, nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := dateutil.DefaultParseDate(s); !ok {
		return fmt.Errorf("unparseable date")
	}
	return nil
}

// pickModel is the minimal standalone program around the picker.
type pickModel struct {
	picker   *daterange.Model
	accepted dateutil.Range
	done     bool
}

func (m *pickModel) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.picker.FocusBoundary(dateutil.BoundaryStart))
}

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.accepted = dateutil.Range{}
			m.done = true
			return m, tea.Quit
		case "ctrl+d":
			m.accepted = m.picker.Value()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *pickModel) View() string {
	if m.done {
		return ""
	}
	return m.picker.View() + "\n\nctrl+d: accept • ctrl+c: cancel\n"
}

func runPicker(opts daterange.Options) (dateutil.Range, error) {
	picker, err := daterange.New(opts)
	if err != nil {
		return dateutil.Range{}, err
	}

	p := tea.NewProgram(&pickModel{picker: picker}, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return dateutil.Range{}, err
	}

	return final.(*pickModel).accepted, nil
}

func saveToHistory(value dateutil.Range) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(value, formatPicked(value))
	return err
}

// formatPicked renders a range as "START END", with "-" for an unset side.
func formatPicked(value dateutil.Range) string {
	side := func(t string) string {
		if t == "" {
			return "-"
		}
		return t
	}
	return side(dateutil.DefaultFormatDate(value.Start)) + " " +
		side(dateutil.DefaultFormatDate(value.End))
}
