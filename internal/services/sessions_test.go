package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinscore/internal/instruments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore() (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	store := NewSessionStore(zap.NewNop())
	store.now = clock.now
	return store, clock
}

func TestCreateAndUpdate(t *testing.T) {
	store, _ := newTestStore()

	id, err := store.Create("gad7", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.Len())

	err = store.Update(id, func(e *Entry) error {
		assert.Equal(t, "Ada", e.ClientName)
		assert.Equal(t, "gad7", e.Session.InstrumentID())
		return nil
	})
	require.NoError(t, err)
}

func TestCreateUnknownInstrument(t *testing.T) {
	store, _ := newTestStore()
	_, err := store.Create("phq9", "Ada")
	var unknown *instruments.UnknownInstrumentError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, 0, store.Len())
}

func TestUpdateMissing(t *testing.T) {
	store, _ := newTestStore()
	err := store.Update("nope", func(*Entry) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdatePropagatesError(t *testing.T) {
	store, _ := newTestStore()
	id, err := store.Create("gad7", "Ada")
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, store.Update(id, func(*Entry) error { return boom }), boom)
}

func TestEvictIdle(t *testing.T) {
	store, clock := newTestStore()

	stale, err := store.Create("gad7", "Ada")
	require.NoError(t, err)
	clock.t = clock.t.Add(90 * time.Minute)
	fresh, err := store.Create("audit", "Bea")
	require.NoError(t, err)

	clock.t = clock.t.Add(45 * time.Minute)
	assert.Equal(t, 1, store.EvictIdle(time.Hour))
	assert.ErrorIs(t, store.Update(stale, func(*Entry) error { return nil }), ErrSessionNotFound)
	assert.NoError(t, store.Update(fresh, func(*Entry) error { return nil }))
}

func TestUpdateRefreshesLastSeen(t *testing.T) {
	store, clock := newTestStore()
	id, err := store.Create("gad7", "Ada")
	require.NoError(t, err)

	clock.t = clock.t.Add(50 * time.Minute)
	require.NoError(t, store.Update(id, func(*Entry) error { return nil }))
	clock.t = clock.t.Add(50 * time.Minute)

	assert.Equal(t, 0, store.EvictIdle(time.Hour))
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore()
	id, err := store.Create("gad7", "Ada")
	require.NoError(t, err)
	store.Delete(id)
	assert.Equal(t, 0, store.Len())
}

func TestJanitorSweepsUntilCancelled(t *testing.T) {
	store := NewSessionStore(zap.NewNop())
	_, err := store.Create("gad7", "Ada")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	janitor, err := NewJanitor(zap.NewNop(), store, 5*time.Millisecond, time.Hour)
	require.NoError(t, err)
	janitor.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, store.Len())

	janitor.SetMaxIdle(-time.Second)
	assert.Equal(t, -time.Second, janitor.MaxIdle())
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNewJanitorRejectsNonPositiveInterval(t *testing.T) {
	store := NewSessionStore(zap.NewNop())
	for _, interval := range []time.Duration{0, -time.Minute} {
		_, err := NewJanitor(zap.NewNop(), store, interval, time.Hour)
		assert.Error(t, err, interval)
	}
}
