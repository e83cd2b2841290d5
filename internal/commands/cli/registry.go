// Package cli provides centralized command registration.
package cli

import (
	"github.com/andrei-cloud/go_pool/internal/commands/cli/bench"
	"github.com/andrei-cloud/go_pool/internal/commands/cli/server"
	"github.com/andrei-cloud/go_pool/internal/commands/cli/templates"
	"github.com/andrei-cloud/go_pool/internal/commands/cli/watch"
	"github.com/spf13/cobra"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	root.AddCommand(server.NewServeCommand())
	root.AddCommand(templates.NewTemplatesCommand())
	root.AddCommand(bench.NewBenchCommand())
	root.AddCommand(watch.NewWatchCommand())

	return nil
}
