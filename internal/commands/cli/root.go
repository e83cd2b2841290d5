// Package cli provides the CLI command structure for go_pool.
package cli

import (
	"fmt"
	"strings"

	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/logging"
	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCommand creates and returns the root command with all subcommands.
func NewRootCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "go_pool",
		Short: "Object pool manager for real-time game instances",
		Long: `An object recycling manager for short-lived game instances such as projectiles,
particle bursts and floating text, with an admin console and pool metrics.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Initialize configuration before running any command.
			if err := config.Initialize(cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg := config.Get()
			logging.InitLogger(
				cfg.Log.Level,
				strings.TrimSpace(strings.ToLower(cfg.Log.Format)) == "human",
			)

			return nil
		},
	}

	// Add persistent flags that affect all commands.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.go_pool/config.yaml)")

	// Add global flags that can override config file settings.
	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "logging format (human, json)")
	rootCmd.PersistentFlags().String("templates", "templates", "path to template manifests")
	rootCmd.PersistentFlags().Int("max-size", 10000, "default free-list ceiling per pool")

	// Bind flags to viper.
	v := config.GetViper()
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("templates.path", rootCmd.PersistentFlags().Lookup("templates"))
	_ = v.BindPFlag("pool.max_size", rootCmd.PersistentFlags().Lookup("max-size"))

	// Register all commands.
	if err := RegisterCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	return rootCmd, nil
}
