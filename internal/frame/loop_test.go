package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRunsPostedClosuresInOrder(t *testing.T) {
	t.Parallel()

	l := New(manager.New(nil), 0)
	assert.Equal(t, time.Second/DefaultTickRate, l.Interval())

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		require.NoError(t, l.Post(func(*manager.Manager) { order = append(order, i) }))
	}
	assert.Equal(t, 3, l.Pending())

	l.Step(time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, l.Pending())
	assert.Equal(t, uint64(1), l.Frames())
}

func TestStepAdvancesLifetimes(t *testing.T) {
	t.Parallel()

	m := manager.New(nil, manager.WithDefaultLifetime(time.Second))
	l := New(m, 60)

	o, err := m.Spawn(object.New("spark"), scene.Origin())
	require.NoError(t, err)

	assert.Zero(t, l.Step(500*time.Millisecond))
	assert.Equal(t, 1, l.Step(500*time.Millisecond))
	assert.False(t, o.Active())
}

func TestDoRunsOnLoop(t *testing.T) {
	t.Parallel()

	l := New(manager.New(nil), 200)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var spawned *object.Object
	err := l.Do(ctx, func(m *manager.Manager) error {
		var err error
		spawned, err = m.Spawn(object.New("bolt"), scene.Origin())
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, spawned)
	assert.True(t, spawned.Active())

	boom := errors.New("boom")
	assert.Equal(t, boom, l.Do(ctx, func(*manager.Manager) error { return boom }))

	err = l.Do(ctx, func(*manager.Manager) error { panic("bad task") })
	assert.Error(t, err)

	cancel()
	require.NoError(t, <-done)

	assert.True(t, errors.Is(l.Do(context.Background(), func(*manager.Manager) error { return nil }), ErrStopped))
	assert.True(t, errors.Is(l.Post(func(*manager.Manager) {}), ErrStopped))
}

func TestDoHonoursContext(t *testing.T) {
	t.Parallel()

	l := New(manager.New(nil), 60)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Do(ctx, func(*manager.Manager) error { return nil })
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAbandonedDoNeverRuns(t *testing.T) {
	t.Parallel()

	m := manager.New(nil)
	l := New(m, 60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := l.Do(ctx, func(m *manager.Manager) error {
		ran = true
		_, err := m.Spawn(object.New("orphan"), scene.Origin())
		return err
	})
	assert.True(t, errors.Is(err, context.Canceled))

	l.Step(time.Millisecond)
	assert.False(t, ran)
	assert.Zero(t, m.ActiveCount(), "no instance is left live without a caller holding it")
	assert.Zero(t, m.PoolCount())
}

func TestClaimedDoReportsResultAfterCancel(t *testing.T) {
	t.Parallel()

	m := manager.New(nil)
	l := New(m, 60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var spawned *object.Object
	done := make(chan error, 1)
	go func() {
		done <- l.Do(ctx, func(m *manager.Manager) error {
			cancel()
			var err error
			spawned, err = m.Spawn(object.New("bolt"), scene.Origin())
			return err
		})
	}()

	require.Eventually(t, func() bool { return l.Pending() == 1 }, time.Second, time.Millisecond)
	l.Step(time.Millisecond)

	require.NoError(t, <-done)
	require.NotNil(t, spawned)
	assert.Equal(t, 1, m.ActiveCount())
}
