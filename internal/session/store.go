package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps conversational state keyed by customer id. Operations on an
// unknown customer behave as fresh/absent state, never as an error. The
// human-handoff flag has its own lifecycle, independent of the session TTL.
type Store interface {
	// Get returns the customer's live session, or nil if absent/expired.
	Get(customerID string) *Session
	// Touch creates the session if needed, refreshes its TTL, and returns it.
	Touch(customerID string) *Session
	// Put persists a mutated session. Callers mutate the handle returned by
	// Get/Touch and put it back once per turn, keeping multi-field updates
	// atomic with respect to other turns.
	Put(s *Session)
	// Clear drops cart, choices and sub-flow flags but leaves any handoff
	// untouched.
	Clear(customerID string)
	// Delete removes the session entirely (handoff flag included).
	Delete(customerID string)

	MarkHandoff(customerID string)
	IsHandoff(customerID string) bool
	ReleaseHandoff(customerID string)
}

// MemoryStore is the in-process Store. Expiry is lazy: the expiry timestamp
// is stored and compared on access, with an optional periodic sweep; no
// per-key timers.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	handoffs map[string]time.Time

	ttl        time.Duration
	handoffTTL time.Duration
	now        func() time.Time
}

// NewMemoryStore builds a store with the given session and handoff TTLs.
func NewMemoryStore(ttl, handoffTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*Session),
		handoffs:   make(map[string]time.Time),
		ttl:        ttl,
		handoffTTL: handoffTTL,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (m *MemoryStore) SetClock(now func() time.Time) { m.now = now }

func (m *MemoryStore) Get(customerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[customerID]
	if !ok {
		return nil
	}
	if m.now().After(s.ActiveUntil) {
		delete(m.sessions, customerID)
		return nil
	}
	return s
}

func (m *MemoryStore) Touch(customerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[customerID]
	if ok && m.now().After(s.ActiveUntil) {
		ok = false
	}
	if !ok {
		s = &Session{CustomerID: customerID}
		m.sessions[customerID] = s
	}
	s.ActiveUntil = m.now().Add(m.ttl)
	return s
}

func (m *MemoryStore) Put(s *Session) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ActiveUntil = m.now().Add(m.ttl)
	m.sessions[s.CustomerID] = s
}

func (m *MemoryStore) Clear(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, customerID)
}

func (m *MemoryStore) Delete(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, customerID)
	delete(m.handoffs, customerID)
}

func (m *MemoryStore) MarkHandoff(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handoffs[customerID] = m.now().Add(m.handoffTTL)
}

func (m *MemoryStore) IsHandoff(customerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.handoffs[customerID]
	if !ok {
		return false
	}
	if m.now().After(until) {
		delete(m.handoffs, customerID)
		return false
	}
	return true
}

func (m *MemoryStore) ReleaseHandoff(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handoffs, customerID)
}

// Sweep evicts expired sessions and handoffs at the given interval until ctx
// is cancelled. Lazy expiry on read already keeps behavior correct; the
// sweep only bounds memory for customers that never return.
func (m *MemoryStore) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *MemoryStore) sweepOnce() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, s := range m.sessions {
		if now.After(s.ActiveUntil) {
			delete(m.sessions, id)
		}
	}
	for id, until := range m.handoffs {
		if now.After(until) {
			delete(m.handoffs, id)
		}
	}
}
