package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shoaibubaid/COUNTDOWN/internal/presenter"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/client"
)

var (
	// watchSettings holds the flags of the watch command.
	watchSettings client.WatchSettings

	addCmd = &cobra.Command{
		Use:   "add <label> <target>",
		Short: "Add a timer counting down to target.",
		Long: `Adds a timer. A blank label becomes "Untitled".

Target accepts "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"
and offsets from now such as "+90m" or "+36h".`,
		Args: cobra.ExactArgs(2), //nolint:mnd // label and target.
		RunE: func(c *cobra.Command, args []string) error {
			return client.Add(c.Context(), clientOptions(c), args[0], args[1])
		},
	}

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timers with the time left.",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return client.List(c.Context(), clientOptions(c))
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a timer by ID.",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return client.Remove(c.Context(), clientOptions(c), args[0])
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Redraw the time left for every timer until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return client.Watch(c.Context(), clientOptions(c), watchSettings)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	watchCmd.Flags().DurationVarP(&watchSettings.Interval, "interval", "i", presenter.DefaultInterval, "redraw interval")
	watchCmd.Flags().IntVar(&watchSettings.RefreshEvery, "refresh-every", 5, "re-read timers every N redraws, 0 to never")
	watchCmd.Flags().BoolVar(&watchSettings.Clear, "clear", true, "clear the terminal before each frame")
}
