// Package watch provides a live terminal dashboard of the pool simulation.
package watch

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andrei-cloud/go_pool/internal/bootstrap"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/frame"
	"github.com/andrei-cloud/go_pool/internal/pool"
	"github.com/andrei-cloud/go_pool/internal/sim"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the pool simulation live",
		Long:  `Run the spawn/return simulation and show pool occupancy as it changes.`,
		RunE:  runWatch,
	}

	cmd.Flags().Int("burst", 8, "Initial maximum spawns per frame")
	cmd.Flags().Uint64("seed", 1, "Random seed")

	return cmd
}

type tickMsg time.Time

type model struct {
	loop     *frame.Loop
	sim      *sim.Sim
	interval time.Duration

	paused bool
	last   sim.Report
	total  sim.Report
	stats  []pool.Stats
	quit   bool
}

func newModel(loop *frame.Loop, s *sim.Sim) model {
	return model{
		loop:     loop,
		sim:      s,
		interval: loop.Interval(),
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the frame ticker.
func (m model) Init() tea.Cmd {
	return m.tick()
}

// Update handles key presses and frame ticks.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true

			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.sim.SetBurst(m.sim.Burst() + 1)
		case "-":
			m.sim.SetBurst(m.sim.Burst() - 1)
		case "t":
			m.loop.Manager().Trim(0)
			m.stats = m.loop.Manager().Stats()
		}
	case tickMsg:
		if !m.paused {
			m.step()
		}

		return m, m.tick()
	}

	return m, nil
}

// step advances the simulation by one frame.
func (m *model) step() {
	r := m.sim.Step(m.interval)
	m.last = r
	m.total.Frame = r.Frame
	m.total.Spawned += r.Spawned
	m.total.Returned += r.Returned
	m.total.Expired += r.Expired
	m.total.Errors += r.Errors
	m.total.Active = r.Active
	m.stats = m.loop.Manager().Stats()
}

// View renders the dashboard.
func (m model) View() string {
	if m.quit {
		return ""
	}

	s := "Object Pools\n"
	s += strings.Repeat("=", 72) + "\n\n"

	state := "running"
	if m.paused {
		state = "paused"
	}
	s += fmt.Sprintf("Frame %d (%s)   burst %d   active %d\n",
		m.total.Frame, state, m.sim.Burst(), m.total.Active)
	s += fmt.Sprintf("Last frame: +%d spawned  -%d returned  -%d expired\n",
		m.last.Spawned, m.last.Returned, m.last.Expired)
	s += fmt.Sprintf("Totals:     %d spawned  %d returned  %d expired  %d errors\n\n",
		m.total.Spawned, m.total.Returned, m.total.Expired, m.total.Errors)

	s += fmt.Sprintf("%-16s %-20s %7s %7s %8s %8s %9s\n",
		"KEY", "CATEGORY", "ACTIVE", "FREE", "CREATED", "REUSED", "DESTROYED")
	for _, st := range m.stats {
		s += fmt.Sprintf("%-16s %-20s %7d %7d %8d %8d %9d\n",
			st.Key, st.Category, st.Active, st.Free, st.Created, st.Reused, st.Destroyed)
	}

	s += "\nKeys:\n"
	s += "  Space: Pause/resume\n"
	s += "  +/-: Change burst size\n"
	s += "  t: Trim free lists\n"
	s += "  q or Ctrl+C: Quit\n"

	return s
}

func runWatch(cmd *cobra.Command, _ []string) error {
	// The dashboard owns the terminal.
	log.Logger = log.Logger.Level(zerolog.Disabled)

	burst, _ := cmd.Flags().GetInt("burst")
	seed, _ := cmd.Flags().GetUint64("seed")

	rt, err := bootstrap.New(config.Get())
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(rt.Loop, sim.New(rt.Loop, burst, seed)))
	if _, err := p.Run(); err != nil {
		return err
	}

	return rt.Manager.Close()
}
