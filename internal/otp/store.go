package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 1000
)

type entry struct {
	code      string
	writtenAt time.Time
	expiresAt time.Time
}

// Store holds one-time codes keyed by identifier (email). Entries expire
// after the TTL and are consumed on successful validation. At capacity the
// least recently written entry is evicted.
type Store struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewStore(ttl time.Duration, capacity int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Issue generates a fresh 6-digit code for key, replacing any previous one.
func (s *Store) Issue(key string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[key] = entry{code: code, writtenAt: now, expiresAt: now.Add(s.ttl)}
	return code, nil
}

// Validate reports whether code matches the live entry for key and consumes
// the entry on success. Expired entries are purged either way.
func (s *Store) Validate(key, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return false
	}
	if e.code != code {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) purgeExpiredLocked(now time.Time) {
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range s.entries {
		if oldestKey == "" || e.writtenAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.writtenAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
