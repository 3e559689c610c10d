// Package memory holds per-session conversation history for the tea
// advisor. State is process-resident only; nothing survives a restart.
package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lindenmoor/teahouse/backend/internal/model/chat"
)

const (
	// DefaultMaxMessages bounds the history kept per session.
	DefaultMaxMessages = 50

	// DefaultTTL is how long an untouched session survives before the
	// sweeper evicts it.
	DefaultTTL = 24 * time.Hour

	// DefaultSweepInterval is how often the background sweeper runs.
	DefaultSweepInterval = time.Hour
)

// conversation is one session's state. Owned exclusively by the store;
// callers only ever see copies of the message slice.
type conversation struct {
	messages     []chat.Message
	createdAt    time.Time
	lastAccessed time.Time
}

// Store encapsulates conversation state management across sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*conversation

	maxMessages   int
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxMessages overrides the per-session history bound.
func WithMaxMessages(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxMessages = n
		}
	}
}

// WithTTL overrides how long inactive sessions are retained.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSweepInterval overrides the background sweep cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithClock injects a time source so tests can advance time directly.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore bootstraps an empty in-memory conversation store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:      make(map[string]*conversation),
		maxMessages:   DefaultMaxMessages,
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getOrCreate returns the session's record, creating it lazily. Callers
// must hold the write lock. lastAccessed is refreshed on every hit.
func (s *Store) getOrCreate(sessionID string) *conversation {
	if conv, ok := s.sessions[sessionID]; ok {
		conv.lastAccessed = s.now()
		return conv
	}
	now := s.now()
	conv := &conversation{
		messages:     make([]chat.Message, 0, 8),
		createdAt:    now,
		lastAccessed: now,
	}
	s.sessions[sessionID] = conv
	return conv
}

// Initialize resets the session to exactly one system message, discarding
// any prior history. Used when starting a fresh topic with a new
// instruction context.
func (s *Store) Initialize(sessionID, systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreate(sessionID)
	conv.messages = []chat.Message{chat.System(systemPrompt)}
}

// Append adds a message to the end of the session's history, creating the
// session if absent, then enforces the size bound.
func (s *Store) Append(sessionID string, msg chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreate(sessionID)
	conv.messages = append(conv.messages, msg)
	conv.trim(s.maxMessages)
}

// trim drops the oldest non-system messages once the history exceeds max.
// System messages are never evicted, so the instruction context survives
// while history degrades to a sliding window.
func (c *conversation) trim(max int) {
	if len(c.messages) <= max {
		return
	}

	var system, other []chat.Message
	for _, m := range c.messages {
		if m.Role == chat.RoleSystem {
			system = append(system, m)
		} else {
			other = append(other, m)
		}
	}

	toRemove := len(other) - (max - len(system))
	if toRemove <= 0 {
		return
	}
	if toRemove > len(other) {
		toRemove = len(other)
	}

	trimmed := make([]chat.Message, 0, max)
	trimmed = append(trimmed, system...)
	trimmed = append(trimmed, other[toRemove:]...)
	c.messages = trimmed
}

// History returns a defensive copy of the session's messages in
// chronological order, creating the session if absent.
func (s *Store) History(sessionID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreate(sessionID)
	out := make([]chat.Message, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// HasSystemMessage reports whether the session already carries an
// instruction context.
func (s *Store) HasSystemMessage(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	for _, m := range conv.messages {
		if m.Role == chat.RoleSystem {
			return true
		}
	}
	return false
}

// Clear removes the session entirely. Clearing an unknown session is a
// no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// SweepExpired evicts every session whose inactivity exceeds the TTL and
// returns how many were removed. Safe to call concurrently with normal
// traffic; eviction removes whole records only.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, conv := range s.sessions {
		if now.Sub(conv.lastAccessed) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Stats aggregates live counters for observability.
type Stats struct {
	TotalConversations int `json:"totalConversations"`
	TotalMessages      int `json:"totalMessages"`
}

// Stats returns aggregate counts across all live sessions.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{TotalConversations: len(s.sessions)}
	for _, conv := range s.sessions {
		st.TotalMessages += len(conv.messages)
	}
	return st
}

// StartSweeper runs the periodic expiry sweep until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.SweepExpired(); n > 0 {
					log.Printf("[memory] swept %d expired conversations", n)
				}
			}
		}
	}()
}
