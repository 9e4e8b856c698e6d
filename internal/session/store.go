// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"log"
	"sync"
	"time"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store holds at most one current session for the process.
//
// Writes (Set, Clear, eviction) take the write lock; plain reads take the
// read lock and return copies. A "valid" read may evict an expired session.
type Store struct {
	mu      sync.RWMutex
	current *Session

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the store's time source. Tests use it to move time
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time. New sessions are stamped with it.
func (s *Store) Now() time.Time {
	return s.now()
}

// =============================================================================
// WRITES
// =============================================================================

// Set replaces the current session unconditionally.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	log.Printf("session: saved session for %s", sess.Username)
}

// Clear drops the current session. Clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		log.Printf("session: cleared session for %s", prev.Username)
	}
}

// EvictExpired clears the slot if it holds an expired session and reports
// whether it did. The expiry is re-checked under the write lock, so a
// session installed after an earlier read is never evicted.
func (s *Store) EvictExpired() bool {
	now := s.now()

	s.mu.Lock()
	if s.current == nil || !s.current.IsExpiredAt(now) {
		s.mu.Unlock()
		return false
	}
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	log.Printf("session: token for %s expired, re-login required", prev.Username)
	return true
}

// =============================================================================
// READS
// =============================================================================

// Current returns a copy of the current session without checking expiry.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Peek returns the current session, whether one exists, and whether it has
// expired. It never mutates the store.
func (s *Store) Peek() (sess Session, ok bool, expired bool) {
	sess, ok = s.Current()
	if !ok {
		return Session{}, false, false
	}
	return sess, true, sess.IsExpiredAt(s.now())
}

// Valid returns the current session only if it has not expired. An expired
// session is evicted, so after one Valid call on it the store is empty.
func (s *Store) Valid() (Session, bool) {
	sess, ok, expired := s.Peek()
	if !ok {
		return Session{}, false
	}
	if expired {
		s.EvictExpired()
		return Session{}, false
	}
	return sess, true
}

// IsLoggedIn reports whether a valid session exists.
func (s *Store) IsLoggedIn() bool {
	_, ok := s.Valid()
	return ok
}

// UserInfo returns the username and user id of the valid session.
func (s *Store) UserInfo() (username string, userID uint32, ok bool) {
	sess, ok := s.Valid()
	if !ok {
		return "", 0, false
	}
	return sess.Username, sess.UserID, true
}

// AuthHeader returns the Authorization header value of the valid session.
func (s *Store) AuthHeader() (string, bool) {
	sess, ok := s.Valid()
	if !ok {
		return "", false
	}
	return sess.AuthHeader(), true
}

// Remaining returns how long the valid session has left, or zero.
func (s *Store) Remaining() time.Duration {
	sess, ok := s.Valid()
	if !ok {
		return 0
	}
	return sess.RemainingAt(s.now())
}
