package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/client"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/common"
	"github.com/shoaibubaid/COUNTDOWN/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// overrides collects flags that replace settings file values.
	overrides common.Overrides
	// remote sends timer commands to the daemon.
	remote bool

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "countdown",
		Short: "Keep named countdown timers and watch the time left.",
		Long: `Countdown keeps a list of named timers, each counting down to a local date and time.

Timers are stored in a JSON file or an SQLite database chosen in the settings file.
Every command works on the data file directly, or on a running daemon with --remote.
Targets are naive local times such as "2025-12-31 18:00", or offsets such as "+90m".`,
		SilenceUsage: true,
	}
)

// Execute runs the countdown CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	logger.Sync()

	if err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop has already run.
	}
}

// clientOptions builds the options shared by the timer commands.
func clientOptions(c *cobra.Command) *client.Options {
	return &client.Options{
		ConfigPath: configPath,
		Overrides:  overrides,
		Remote:     remote,
		Out:        c.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&overrides.DataFile, "data-file", "d", "", "path to the timers file or database")
	flags.StringVarP(&overrides.Backend, "backend", "b", "", "storage backend: file, sqlite or memory")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVarP(&overrides.ServerAddress, "server", "s", "", "daemon address, host:port")
	flags.BoolVarP(&remote, "remote", "r", false, "send commands to the running daemon")

	rootCmd.AddCommand(addCmd, listCmd, removeCmd, watchCmd, serveCmd)
}
