// Package templates provides template manifest commands.
package templates

import "github.com/spf13/cobra"

// NewTemplatesCommand creates the templates command group.
func NewTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Template manifest commands",
		Long:  `Commands for inspecting and validating the YAML template manifests.`,
	}

	// Add subcommands.
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
