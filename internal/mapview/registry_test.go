package mapview_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/livemap/internal/domain"
	"github.com/pkordes/livemap/internal/mapview"
)

func TestRegistry_OpenGetClose(t *testing.T) {
	r := mapview.NewRegistry(listerOf(bizA), geocoderReturning(), discard, time.Minute)
	t.Cleanup(r.CloseAll)

	v := r.Open()
	waitClosed(t, v.Load())

	got, err := r.Get(v.ID())
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Len(t, got.Markers(), 1, "Open starts the load")
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Close(v.ID()))
	assert.True(t, v.Closed())
	assert.Zero(t, r.Len())

	_, err = r.Get(v.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Close(v.ID()), domain.ErrNotFound)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := mapview.NewRegistry(listerOf(), geocoderReturning(), discard, time.Minute)

	_, err := r.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_SweepClosesIdleViews(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := mapview.NewRegistry(listerOf(bizA), geocoderReturning(), discard, 10*time.Minute)
	r.SetClock(func() time.Time { return now })
	t.Cleanup(r.CloseAll)

	stale := r.Open()
	now = now.Add(8 * time.Minute)
	fresh := r.Open()

	// Touching a view resets its idle timer.
	now = now.Add(1 * time.Minute)
	_, err := r.Get(fresh.ID())
	require.NoError(t, err)

	closed := r.Sweep(now.Add(2 * time.Minute))

	assert.Equal(t, 1, closed)
	assert.True(t, stale.Closed())
	assert.False(t, fresh.Closed())
	_, err = r.Get(stale.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_CloseAll(t *testing.T) {
	r := mapview.NewRegistry(listerOf(bizA, bizB), geocoderReturning(), discard, time.Minute)
	views := []*mapview.View{r.Open(), r.Open(), r.Open()}

	r.CloseAll()

	assert.Zero(t, r.Len())
	for _, v := range views {
		assert.True(t, v.Closed())
	}
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := mapview.NewRegistry(listerOf(), geocoderReturning(), discard, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	waitClosed(t, done)
}
