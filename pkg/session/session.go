// Package session keeps per-visitor dashboard state for the server.
//
// A [Session] owns the visitor's current method selection and the live
// [diagram.Set] built from it. Diagram state is mutable and not
// serialisable, so sessions live in process memory: [MemoryStore] holds them
// with a sliding TTL and a background janitor evicts idle ones.
//
// The diagram engine is single-threaded. The server must hold
// [Session.Lock] for the whole of each event it applies to a session.
//
//	sess, _ := session.New(registry, charts.Supplier, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if sess == nil || err != nil {
//	    // Unknown or expired: start a new one.
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
)

// ErrExpired is returned when a session has exceeded its TTL.
var ErrExpired = errors.New("expired")

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = 2 * time.Hour

// Session is one visitor's dashboard state.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time // guarded by the owning store

	// Guarded by Lock.
	Selection string
	Set       *diagram.Set

	mu sync.Mutex
}

// New creates an empty session with a random UUID.
func New(reg *diagram.Registry, supplier diagram.PanelSupplier, ttl time.Duration) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id.String(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Set:       diagram.NewSet(reg, supplier),
	}, nil
}

// Lock serialises event handling on the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Select applies a selection toggle and reseeds the diagram set. It returns
// the new selection, empty when nothing is selected. Callers hold the lock.
func (s *Session) Select(cat *catalogue.Catalogue, id string) string {
	next, rec := catalogue.Select(cat, s.Selection, id)
	s.Selection = next
	s.Set.Reseed(rec)
	return next
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID and extends its lifetime.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// MemoryStore is an in-process session store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewMemoryStore creates a store whose Get slides expiry forward by ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{sessions: make(map[string]*Session), ttl: ttl}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if sess.IsExpired() {
		delete(m.sessions, sessionID)
		return nil, ErrExpired
	}
	sess.ExpiresAt = time.Now().Add(m.ttl)
	return sess, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Cleanup implements Store.
func (m *MemoryStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if sess.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Janitor calls Cleanup every interval until ctx is cancelled.
func Janitor(ctx context.Context, store Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = store.Cleanup(ctx)
		}
	}
}
