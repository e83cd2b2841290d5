// Package sim drives a frame loop with bursty, seeded spawn and return traffic.
package sim

import (
	"math/rand/v2"
	"time"

	"github.com/andrei-cloud/go_pool/internal/frame"
	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
)

const (
	// every burstEvery-th frame spawns a full burst
	burstEvery = 10
	// chance that a live instance is returned in a frame
	returnChance = 0.15
	arenaSize    = 50
)

// Report summarises one simulated frame.
type Report struct {
	Frame    uint64
	Spawned  int
	Returned int
	Expired  int
	Errors   int
	Active   int
}

// Sim generates traffic against the manager owned by a loop. It must run on the goroutine
// that steps the loop.
type Sim struct {
	loop  *frame.Loop
	keys  []string
	rng   *rand.Rand
	burst int
}

// New returns a simulation spawning the registered keys of the loop's manager.
func New(loop *frame.Loop, burst int, seed uint64) *Sim {
	if burst < 1 {
		burst = 1
	}

	return &Sim{
		loop:  loop,
		keys:  loop.Manager().Registry().Keys(),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		burst: burst,
	}
}

// Burst returns the current burst size.
func (s *Sim) Burst() int { return s.burst }

// SetBurst changes the burst size, never below one.
func (s *Sim) SetBurst(n int) {
	if n < 1 {
		n = 1
	}
	s.burst = n
}

// Keys returns the keys the simulation spawns.
func (s *Sim) Keys() []string { return s.keys }

// Step spawns and returns instances, then advances the loop by one frame of dt.
func (s *Sim) Step(dt time.Duration) Report {
	m := s.loop.Manager()
	r := Report{Frame: s.loop.Frames() + 1}

	for _, o := range m.Live() {
		if s.rng.Float64() >= returnChance {
			continue
		}
		if err := m.Return(o); err != nil {
			r.Errors++
			continue
		}
		r.Returned++
	}

	if len(s.keys) > 0 {
		n := 1 + s.rng.IntN(s.burst)
		if r.Frame%burstEvery == 0 {
			n = s.burst * 4
		}
		for i := 0; i < n; i++ {
			if err := s.spawnOne(m); err != nil {
				r.Errors++
				log.Debug().Err(err).Msg("simulated spawn failed")
				continue
			}
			r.Spawned++
		}
	}

	r.Expired = s.loop.Step(dt)
	r.Active = m.ActiveCount()

	return r
}

func (s *Sim) spawnOne(m *manager.Manager) error {
	key := s.keys[s.rng.IntN(len(s.keys))]
	pos := mgl32.Vec3{
		(s.rng.Float32() - 0.5) * arenaSize,
		s.rng.Float32() * 4,
		(s.rng.Float32() - 0.5) * arenaSize,
	}
	yaw := mgl32.QuatRotate(mgl32.DegToRad(s.rng.Float32()*360), mgl32.Vec3{0, 1, 0})

	_, err := m.SpawnKey(key, scene.At(pos, yaw))

	return err
}

// Run steps the simulation frames times and returns the accumulated totals.
func (s *Sim) Run(frames int, dt time.Duration) Report {
	var total Report
	for i := 0; i < frames; i++ {
		r := s.Step(dt)
		total.Frame = r.Frame
		total.Spawned += r.Spawned
		total.Returned += r.Returned
		total.Expired += r.Expired
		total.Errors += r.Errors
		total.Active = r.Active
	}

	return total
}
