package composer

import (
	"strconv"
	"sync"
	"time"

	"github.com/prasadk19/postdeck/internal/draft"
)

// Manager hands out one composer session per user and owns its autosave
// lifecycle. Sessions are created on first use and torn down after a
// successful dispatch or an explicit discard.
type Manager struct {
	dir      string
	posts    Persister
	interval time.Duration

	mu       sync.Mutex
	sessions map[int64]*session
}

type session struct {
	composer  *Composer
	autosaver *draft.Autosaver
}

func NewManager(dir string, posts Persister, interval time.Duration) *Manager {
	return &Manager{
		dir:      dir,
		posts:    posts,
		interval: interval,
		sessions: make(map[int64]*session),
	}
}

// Get returns the user's active composer, creating it (and starting its
// autosaver) on first use. The stored snapshot, if any, is loaded once at
// construction.
func (m *Manager) Get(userID int64) *Composer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s.composer
	}

	store := draft.NewFileStore(draft.SnapshotPath(m.dir, strconv.FormatInt(userID, 10)))
	c := New(userID, store, m.posts)
	a := draft.NewAutosaver(store, c.Snapshot, m.interval)
	a.Start()

	m.sessions[userID] = &session{composer: c, autosaver: a}
	return c
}

// Release tears down the user's session: autosave ticks stop, though an
// already in-flight save is left to finish on its own.
func (m *Manager) Release(userID int64) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		s.autosaver.Stop()
	}
}

// Shutdown stops every active session's autosaver.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[int64]*session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.autosaver.Stop()
	}
}
