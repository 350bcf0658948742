package draft

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyStore struct {
	mu     sync.Mutex
	saves  []Snapshot
	err    error
	loaded Snapshot
}

func (s *spyStore) Load() Snapshot { return s.loaded }

func (s *spyStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves = append(s.saves, snap)
	return nil
}

func (s *spyStore) Clear() error { return nil }

func (s *spyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func TestAutosaveTickWithContent(t *testing.T) {
	store := &spyStore{}
	current := Snapshot{Content: "Hello #test"}
	a := NewAutosaver(store, func() Snapshot { return current }, 0)

	now := time.Date(2026, 5, 1, 10, 0, 30, 0, time.UTC)
	a.tick(now)

	require.Equal(t, 1, store.saveCount(), "one interval elapsed, exactly one save")
	assert.Equal(t, "Hello #test", store.saves[0].Content)
	assert.Equal(t, now, store.saves[0].LastSaved)
}

func TestAutosaveTickEmptyComposer(t *testing.T) {
	store := &spyStore{}
	a := NewAutosaver(store, func() Snapshot { return Snapshot{Content: "  "} }, 0)

	a.tick(time.Now())

	assert.Zero(t, store.saveCount(), "no autosave fires for an empty composer")
}

func TestAutosaveTickMediaOnly(t *testing.T) {
	store := &spyStore{}
	a := NewAutosaver(store, func() Snapshot {
		return Snapshot{Media: []MediaRef{{AssetID: 3, MediaType: "image"}}}
	}, 0)

	a.tick(time.Now())

	assert.Equal(t, 1, store.saveCount())
}

func TestAutosaveTickSwallowsStoreError(t *testing.T) {
	store := &spyStore{err: errors.New("disk full")}
	a := NewAutosaver(store, func() Snapshot { return Snapshot{Content: "x"} }, 0)

	assert.NotPanics(t, func() { a.tick(time.Now()) })
}

func TestAutosaveLoopStops(t *testing.T) {
	store := &spyStore{}
	a := NewAutosaver(store, func() Snapshot { return Snapshot{Content: "x"} }, 0)

	ticks := make(chan time.Time)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		a.loop(ticks, done)
		close(finished)
	}()

	ticks <- time.Now()
	ticks <- time.Now()
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, 2, store.saveCount())
}

func TestAutosaverStartStopIdempotent(t *testing.T) {
	store := &spyStore{}
	a := NewAutosaver(store, func() Snapshot { return Snapshot{} }, time.Hour)

	a.Start()
	a.Start()
	a.Stop()
	a.Stop()
}
