// Package cli implements the unfurl command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meigma/unfurl/cmd/unfurl/cli/config"
)

// Build information set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "unfurl",
	Short: "Safely extract archives",
	Long: `Unfurl extracts tar and zip archives, including compressed variants
(.tar.gz, .tar.bz2, .tar.xz, .tar.zst), to a local directory.

Entries whose paths or symlink targets would escape the output directory
are silently dropped, so a hostile archive cannot write outside it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")
	rootCmd.Version = version
	cobra.OnInitialize(initConfig)
}

// initConfig loads the optional config file and environment overrides.
func initConfig() {
	configDir, err := config.Dir()
	if err == nil {
		viper.AddConfigPath(configDir)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("UNFURL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // A missing config file is fine.
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
