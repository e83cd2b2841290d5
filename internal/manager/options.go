package manager

import (
	"time"

	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/metrics"
	"github.com/andrei-cloud/go_pool/pkg/object"
)

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSize sets the default free-list ceiling of every pool.
func WithMaxSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

// WithPrewarm fills each new pool with n idle instances when it is created.
func WithPrewarm(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.prewarm = n
		}
	}
}

// WithDefaultLifetime returns instances automatically after d unless their prototype sets
// its own lifetime. Zero disables it.
func WithDefaultLifetime(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.defaultLifetime = d
		}
	}
}

// WithMetrics reports pool activity to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithSpawnHook runs fn after every successful spawn. fn may call back into the manager.
func WithSpawnHook(fn func(*object.Object)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.onSpawn = append(m.onSpawn, fn)
		}
	}
}

// WithReturnHook runs fn after every successful return. fn may call back into the manager.
func WithReturnHook(fn func(*object.Object)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.onReturn = append(m.onReturn, fn)
		}
	}
}

type spawnOptions struct {
	hint    category.Category
	hasHint bool
}

// SpawnOption tunes a single spawn call.
type SpawnOption func(*spawnOptions)

// WithCategoryHint passes the caller's expected category. The pool's own category always
// wins; a disagreement is only logged.
func WithCategoryHint(c category.Category) SpawnOption {
	return func(o *spawnOptions) {
		o.hint = c
		o.hasHint = true
	}
}
