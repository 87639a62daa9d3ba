package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tuikit.dev/almanac/internal/config"
	"tuikit.dev/almanac/internal/gallery"
	"tuikit.dev/almanac/internal/history"
	"tuikit.dev/almanac/internal/logger"
)

// RootCmd is the root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "Almanac - date range picker for the terminal",
	Long:  `A terminal date-range picker: dual text fields, a calendar popover, quick-pick presets, and a searchable history of past selections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the gallery TUI
		settings, settingsPath, err := loadSettings()
		if err != nil {
			return err
		}

		store, err := openHistory()
		if err != nil {
			logger.Warn("history disabled", "error", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		watcher, err := gallery.NewSettingsWatcher(settingsPath)
		if err != nil {
			logger.Warn("settings live reload disabled", "error", err)
			watcher = nil
		}
		if watcher != nil {
			if err := watcher.Start(); err != nil {
				logger.Warn("settings live reload disabled", "error", err)
				watcher = nil
			} else {
				defer watcher.Stop()
			}
		}

		model, err := gallery.New(settings, store, watcher)
		if err != nil {
			return err
		}

		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	RootCmd.AddCommand(pickCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(settingsCmd)
}

func loadSettings() (config.Settings, string, error) {
	path, err := config.SettingsPath()
	if err != nil {
		return config.Settings{}, "", fmt.Errorf("resolving settings path: %w", err)
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return config.Settings{}, "", err
	}
	return settings, path, nil
}

func openHistory() (*history.Store, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}
	return history.Open(dbPath)
}

// Execute runs the root command
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
