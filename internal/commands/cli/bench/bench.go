// Package bench provides the pool simulation benchmark command.
package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/andrei-cloud/go_pool/internal/bootstrap"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/pool"
	"github.com/andrei-cloud/go_pool/internal/sim"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Simulate bursty spawn and return traffic",
		Long: `Run a deterministic spawn/return simulation against the configured templates
and print the resulting per-pool statistics.`,
		RunE: runBench,
	}

	cmd.Flags().Int("frames", 600, "Number of frames to simulate")
	cmd.Flags().Int("burst", 8, "Maximum spawns per frame")
	cmd.Flags().Uint64("seed", 1, "Random seed")

	return cmd
}

func runBench(cmd *cobra.Command, _ []string) error {
	// Disable logging for CLI commands.
	log.Logger = log.Logger.Level(zerolog.Disabled)

	frames, _ := cmd.Flags().GetInt("frames")
	burst, _ := cmd.Flags().GetInt("burst")
	seed, _ := cmd.Flags().GetUint64("seed")
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	rt, err := bootstrap.New(config.Get())
	if err != nil {
		return err
	}
	if rt.Registry.Len() == 0 {
		return fmt.Errorf("no templates found in %s", config.Get().Templates.Path)
	}

	s := sim.New(rt.Loop, burst, seed)
	start := time.Now()
	total := s.Run(frames, rt.Loop.Interval())
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%d frames in %s: %d spawned, %d returned, %d expired, %d errors, %d active\n\n",
		total.Frame, elapsed.Round(time.Microsecond), total.Spawned, total.Returned, total.Expired, total.Errors, total.Active)

	if err := WriteStats(out, rt.Manager.Stats()); err != nil {
		return err
	}

	return rt.Manager.Close()
}

// WriteStats prints one aligned row per pool.
func WriteStats(out io.Writer, stats []pool.Stats) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "Key\tCategory\tActive\tFree\tCreated\tReused\tDestroyed\tReuse %")
	_, _ = fmt.Fprintln(w, "---\t--------\t------\t----\t-------\t------\t---------\t-------")

	for _, st := range stats {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			st.Key,
			st.Category,
			st.Active,
			st.Free,
			st.Created,
			st.Reused,
			st.Destroyed,
			reuseRatio(st),
		)
	}

	return w.Flush()
}

func reuseRatio(st pool.Stats) float64 {
	checkouts := st.Created + st.Reused
	if checkouts == 0 {
		return 0
	}

	return 100 * float64(st.Reused) / float64(checkouts)
}
