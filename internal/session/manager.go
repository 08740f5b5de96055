package session

import (
	"context"
	"sync"
	"time"
)

// Key identifies one live session by its channel, optionally scoped to a guild
type Key struct {
	GuildID   string
	ChannelID string
}

// Manager maps channel keys to live session values. A single mutex serializes
// every operation so read-modify-write sequences through Update are atomic.
type Manager[T any] struct {
	mu       sync.Mutex
	sessions map[Key]T
	touched  map[Key]time.Time
}

// NewManager creates an empty session manager
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		sessions: make(map[Key]T),
		touched:  make(map[Key]time.Time),
	}
}

// Get returns the session for the key, if any
func (m *Manager[T]) Get(key Key) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.sessions[key]
	return value, ok
}

// Set stores the session for the key, replacing any existing one
func (m *Manager[T]) Set(key Key, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = value
	m.touched[key] = time.Now()
}

// Pop removes and returns the session for the key
func (m *Manager[T]) Pop(key Key) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
		delete(m.touched, key)
	}
	return value, ok
}

// Update runs the mutator on the stored session while holding the lock. The
// mutator must not block. Returns false without calling the mutator when the
// key is absent.
func (m *Manager[T]) Update(key Key, mutate func(T)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.sessions[key]
	if !ok {
		return false
	}
	mutate(value)
	m.touched[key] = time.Now()
	return true
}

// Keys returns a snapshot of the live keys
func (m *Manager[T]) Keys() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]Key, 0, len(m.sessions))
	for key := range m.sessions {
		keys = append(keys, key)
	}
	return keys
}

// Values returns a snapshot of the live sessions
func (m *Manager[T]) Values() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := make([]T, 0, len(m.sessions))
	for _, value := range m.sessions {
		values = append(values, value)
	}
	return values
}

// Len returns the number of live sessions
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ClearGuild removes every session belonging to the guild
func (m *Manager[T]) ClearGuild(guildID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key := range m.sessions {
		if key.GuildID == guildID {
			delete(m.sessions, key)
			delete(m.touched, key)
			removed++
		}
	}
	return removed
}

// sweepIdle removes sessions untouched for longer than ttl
func (m *Manager[T]) sweepIdle(ttl time.Duration) []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-ttl)
	var expired []Key
	for key, last := range m.touched {
		if last.Before(cutoff) {
			delete(m.sessions, key)
			delete(m.touched, key)
			expired = append(expired, key)
		}
	}
	return expired
}

// StartSweep tears down idle sessions on a ticker until the context is done.
// Expired keys are reported to onExpire, which may be nil.
func (m *Manager[T]) StartSweep(ctx context.Context, interval, ttl time.Duration, onExpire func(Key)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, key := range m.sweepIdle(ttl) {
					if onExpire != nil {
						onExpire(key)
					}
				}
			}
		}
	}()
}
