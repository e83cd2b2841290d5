package templates

import (
	"fmt"
	"text/tabwriter"

	"github.com/andrei-cloud/go_pool/internal/bootstrap"
	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered templates",
		Long:  `List every template in the manifest directory with its category and pool settings.`,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	// Disable logging for CLI commands.
	log.Logger = log.Logger.Level(zerolog.Disabled)

	reg, _, err := bootstrap.LoadRegistry(config.Get().Templates.Path)
	if err != nil {
		return err
	}

	// Create tabwriter for aligned output.
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "Key\tCategory\tComponents\tLifetime\tMax Size")
	_, _ = fmt.Fprintln(w, "---\t--------\t----------\t--------\t--------")

	for _, p := range reg.List() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Key(),
			category.Classify(p.Template()),
			p.Template().Capabilities(),
			lifetime(p),
			maxSize(p),
		)
	}

	return w.Flush()
}

func lifetime(p *registry.Prototype) string {
	if p.Lifetime() <= 0 {
		return "-"
	}

	return p.Lifetime().String()
}

func maxSize(p *registry.Prototype) string {
	if p.MaxSize() <= 0 {
		return fmt.Sprintf("%d (default)", config.Get().Pool.MaxSize)
	}

	return fmt.Sprint(p.MaxSize())
}
