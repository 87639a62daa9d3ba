package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyLimitFlag int

// historyCmd manages saved selections.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved date-range selections",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		recent, err := store.Recent(historyLimitFlag)
		if err != nil {
			return err
		}
		if len(recent) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved selections")
			return nil
		}

		for _, sel := range recent {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n",
				sel.ID, formatPicked(sel.Value), sel.SelectedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one saved selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune [keep]",
	Short: "Keep only the newest selections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, err := strconv.Atoi(args[0])
		if err != nil || keep < 0 {
			return fmt.Errorf("keep must be a non-negative number, got %q", args[0])
		}

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Prune(keep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned history to %d entr%s\n", keep, plural(keep, "y", "ies"))
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "maximum entries to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
