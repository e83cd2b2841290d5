// Package frame drives the pool manager from a single goroutine at a fixed tick rate.
//
// Other goroutines never touch the manager directly. They post closures with Do or Post,
// and the loop runs them at the start of the next frame, before lifetimes advance.
package frame

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/eapache/queue"
	"github.com/rs/zerolog/log"
)

// DefaultTickRate is the frame rate used when none is configured.
const DefaultTickRate = 60

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("frame loop stopped")

const (
	taskQueued int32 = iota
	taskClaimed
	taskCancelled
)

type task struct {
	fn    func(*manager.Manager) error
	done  chan error
	state atomic.Int32
}

// claim moves a queued task to claimed. It fails when the waiter already gave up.
func (t *task) claim() bool { return t.state.CompareAndSwap(taskQueued, taskClaimed) }

// Loop owns a manager and serialises all access to it.
type Loop struct {
	mgr      *manager.Manager
	interval time.Duration

	mu      sync.Mutex
	pending *queue.Queue
	stopped bool

	frames atomic.Uint64
}

// New returns a loop ticking m tickRate times per second.
func New(m *manager.Manager, tickRate int) *Loop {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	return &Loop{
		mgr:      m,
		interval: time.Second / time.Duration(tickRate),
		pending:  queue.New(),
	}
}

// Manager returns the owned manager. Only code running on the loop may use it.
func (l *Loop) Manager() *manager.Manager { return l.mgr }

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration { return l.interval }

// Frames returns the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Pending returns the number of queued closures.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pending.Length()
}

// Post queues fn for the next frame without waiting for it.
func (l *Loop) Post(fn func(*manager.Manager)) error {
	return l.enqueue(&task{fn: func(m *manager.Manager) error {
		fn(m)
		return nil
	}})
}

// Do queues fn for the next frame and waits for its result. When ctx ends before the loop
// picks the closure up, fn never runs and ctx.Err() is returned. Once picked up, fn runs to
// completion and Do reports its result. Calling Do from code already running on the loop
// deadlocks.
func (l *Loop) Do(ctx context.Context, fn func(*manager.Manager) error) error {
	t := &task{fn: fn, done: make(chan error, 1)}
	if err := l.enqueue(t); err != nil {
		return err
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		if t.state.CompareAndSwap(taskQueued, taskCancelled) {
			return ctx.Err()
		}

		return <-t.done
	}
}

func (l *Loop) enqueue(t *task) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrStopped
	}
	l.pending.Add(t)

	return nil
}

// Step runs one frame synchronously: queued closures in FIFO order, then the lifetime tick.
// It reports how many instances expired.
func (l *Loop) Step(dt time.Duration) int {
	for _, t := range l.drain() {
		l.run(t)
	}

	expired := l.mgr.Tick(dt)
	l.frames.Add(1)

	return expired
}

func (l *Loop) drain() []*task {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.pending.Length()
	if n == 0 {
		return nil
	}
	tasks := make([]*task, 0, n)
	for l.pending.Length() > 0 {
		tasks = append(tasks, l.pending.Remove().(*task))
	}

	return tasks
}

func (l *Loop) run(t *task) {
	if !t.claim() {
		log.Debug().
			Str("event", "task_skipped").
			Msg("skipped frame task abandoned by its caller")

		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("event", "task_panic").
				Interface("panic", r).
				Msg("recovered from panic in frame task")
			if t.done != nil {
				t.done <- errors.New("frame task panicked")
			}
		}
	}()

	err := t.fn(l.mgr)
	if t.done != nil {
		t.done <- err
	}
}

// Run ticks until ctx is cancelled. Closures still queued at that point fail with ErrStopped.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	log.Info().
		Str("event", "loop_started").
		Dur("interval", l.interval).
		Msg("frame loop started")

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.stop()
			log.Info().
				Str("event", "loop_stopped").
				Uint64("frames", l.Frames()).
				Msg("frame loop stopped")

			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if n := l.Step(dt); n > 0 {
				log.Debug().
					Str("event", "lifetimes_expired").
					Int("returned", n).
					Msg("returned expired instances")
			}
		}
	}
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	for _, t := range l.drain() {
		if t.claim() && t.done != nil {
			t.done <- ErrStopped
		}
	}
}
