// Package bootstrap builds the pool runtime from configuration.
package bootstrap

import (
	"fmt"

	"github.com/andrei-cloud/go_pool/internal/catalog"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/frame"
	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/rs/zerolog/log"
)

// Runtime is a loaded registry and the manager and loop serving it.
type Runtime struct {
	Registry *registry.Registry
	Manager  *manager.Manager
	Loop     *frame.Loop
	Warnings []error
}

// LoadRegistry reads the manifests in dir into a sealed registry. Duplicate keys come back
// as warnings.
func LoadRegistry(dir string) (*registry.Registry, []error, error) {
	entries, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New()
	warnings, err := catalog.Populate(reg, entries)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to register templates: %w", err)
	}

	return reg, warnings, nil
}

// New loads the templates named by cfg and builds a manager and frame loop for them.
func New(cfg *config.Config, opts ...manager.Option) (*Runtime, error) {
	reg, warnings, err := LoadRegistry(cfg.Templates.Path)
	if err != nil {
		return nil, err
	}

	mopts := []manager.Option{
		manager.WithMaxSize(cfg.Pool.MaxSize),
		manager.WithPrewarm(cfg.Pool.Prewarm),
		manager.WithDefaultLifetime(cfg.Pool.DefaultLifetime),
	}
	m := manager.New(reg, append(mopts, opts...)...)

	log.Info().
		Str("event", "templates_loaded").
		Str("path", cfg.Templates.Path).
		Int("templates", reg.Len()).
		Int("duplicates", len(warnings)).
		Msg("loaded templates")

	return &Runtime{
		Registry: reg,
		Manager:  m,
		Loop:     frame.New(m, cfg.Loop.TickRate),
		Warnings: warnings,
	}, nil
}
