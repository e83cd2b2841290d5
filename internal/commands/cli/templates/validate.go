package templates

import (
	"fmt"

	"github.com/andrei-cloud/go_pool/internal/catalog"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate template manifests",
		Long: `Load every manifest and report malformed documents and duplicate keys.
Exits non-zero on malformed manifests, or on duplicates with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().Bool("strict", false, "Treat duplicate keys as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Disable logging for CLI commands.
	log.Logger = log.Logger.Level(zerolog.Disabled)

	dir := config.Get().Templates.Path
	if len(args) == 1 {
		dir = args[0]
	}
	strict, _ := cmd.Flags().GetBool("strict")

	entries, err := catalog.LoadDir(dir)
	if err != nil {
		return err
	}

	reg := registry.New()
	warnings, err := catalog.Populate(reg, entries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range warnings {
		_, _ = fmt.Fprintf(out, "warning: %v\n", w)
	}
	_, _ = fmt.Fprintf(out, "%d templates, %d keys, %d duplicates in %s\n",
		len(entries), reg.Len(), len(warnings), dir)

	if strict && len(warnings) > 0 {
		return fmt.Errorf("%d duplicate template keys", len(warnings))
	}

	return nil
}
