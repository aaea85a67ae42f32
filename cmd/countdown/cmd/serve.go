package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shoaibubaid/COUNTDOWN/internal/service/server"
)

// serveCmd runs the daemon that owns the timer store.
var serveCmd = &cobra.Command{
	Use:   "serve [listen-address]",
	Short: "Run the countdown gRPC daemon.",
	Long: `Starts the daemon that owns the timer store and serves it over gRPC.

The daemon listens on ServerAddress from the settings file unless an address
is given as argument (e.g., 127.0.0.1:9090). Other commands reach it with --remote.
Pending writes are flushed on SIGINT or SIGTERM.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		// Use listen address argument if provided, otherwise rely on config.
		var listenAddress string
		if len(args) > 0 {
			listenAddress = args[0]
		}

		options := &server.Options{
			ConfigPath:    configPath,
			ListenAddress: listenAddress,
			Overrides:     overrides,
		}

		return server.Run(c.Context(), options)
	},
}
