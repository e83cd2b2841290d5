package manager

import (
	"fmt"
	"sort"

	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/rs/zerolog/log"
)

// SpawnAs spawns template and returns its T component. When the instance has no T the
// handle is still returned, still tracked, together with ErrCapabilityMissing.
//
// Example:
//
//	audio, handle, err := manager.SpawnAs[*component.AudioEmitter](m, footstep, scene.Origin())
func SpawnAs[T component.Component](
	m *Manager,
	template *object.Object,
	at scene.Placement,
	opts ...SpawnOption,
) (T, *object.Object, error) {
	o, err := m.Spawn(template, at, opts...)

	return view[T](m, o, err)
}

// SpawnKeyAs is SpawnAs for a registry key.
func SpawnKeyAs[T component.Component](
	m *Manager,
	key string,
	at scene.Placement,
	opts ...SpawnOption,
) (T, *object.Object, error) {
	o, err := m.SpawnKey(key, at, opts...)

	return view[T](m, o, err)
}

func view[T component.Component](m *Manager, o *object.Object, err error) (T, *object.Object, error) {
	var zero T
	if err != nil {
		return zero, nil, err
	}

	c, ok := object.As[T](o)
	if !ok {
		m.metrics.Error("capability_missing")
		log.Warn().
			Str("event", "capability_missing").
			Str("instance", o.ID().String()).
			Str("name", o.Name()).
			Str("want", fmt.Sprintf("%T", zero)).
			Msg("spawned instance lacks requested component")

		return zero, o, fmt.Errorf("%w: %T on %q", errorcodes.ErrCapabilityMissing, zero, o.Name())
	}

	return c, o, nil
}

func sortTimers(ts []*timer) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].seq < ts[j].seq })
}
