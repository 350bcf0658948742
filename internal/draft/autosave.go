package draft

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often the composer's working copy is written out.
const DefaultInterval = 30 * time.Second

// Autosaver periodically persists the composer's working copy so an
// interrupted session can be resumed. Nothing is written while the
// composer is empty.
type Autosaver struct {
	store    Store
	source   func() Snapshot
	interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

// NewAutosaver wires a store to a source of the current working copy.
// interval <= 0 falls back to DefaultInterval.
func NewAutosaver(store Store, source func() Snapshot, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autosaver{
		store:    store,
		source:   source,
		interval: interval,
	}
}

func (a *Autosaver) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ticker != nil {
		return
	}
	a.ticker = time.NewTicker(a.interval)
	a.done = make(chan struct{})
	go a.loop(a.ticker.C, a.done)
}

// Stop ends the tick loop. An in-flight write is not aborted; it simply
// completes unobserved.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ticker == nil {
		return
	}
	a.ticker.Stop()
	close(a.done)
	a.ticker = nil
	a.done = nil
}

func (a *Autosaver) loop(ticks <-chan time.Time, done <-chan struct{}) {
	for {
		select {
		case now := <-ticks:
			a.tick(now)
		case <-done:
			return
		}
	}
}

// tick persists the working copy if it has content. Failures are logged
// and swallowed: autosave is best-effort and must never interrupt the
// composer.
func (a *Autosaver) tick(now time.Time) {
	s := a.source()
	if !s.HasContent() {
		return
	}
	s.LastSaved = now
	if err := a.store.Save(s); err != nil {
		slog.Info(err.Error())
	}
}
