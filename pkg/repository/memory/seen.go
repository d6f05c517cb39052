package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// DefaultSeenTTL bounds how long a polled event id is remembered
const DefaultSeenTTL = 7 * 24 * time.Hour

// DefaultSeenSweepInterval is the minimum time between two sweeps of expired ids
const DefaultSeenSweepInterval = time.Minute

type seenKey struct {
	channel types.Channel
	id      string
}

// SeenStore is an in-process seen-id set. Entries expire after ttl; expired
// entries are dropped by a sweep that runs at most once per sweep interval.
type SeenStore struct {
	mu            sync.Mutex
	ttl           time.Duration
	sweepInterval time.Duration
	nextSweep     time.Time
	now           func() time.Time
	entries       map[seenKey]time.Time
}

var _ interfaces.SeenStore = &SeenStore{}

type SeenOption func(*SeenStore)

// WithSeenTTL overrides DefaultSeenTTL
func WithSeenTTL(ttl time.Duration) SeenOption {
	return func(s *SeenStore) {
		s.ttl = ttl
	}
}

// WithSeenSweepInterval overrides DefaultSeenSweepInterval
func WithSeenSweepInterval(d time.Duration) SeenOption {
	return func(s *SeenStore) {
		s.sweepInterval = d
	}
}

// WithSeenClock replaces time.Now, for tests
func WithSeenClock(now func() time.Time) SeenOption {
	return func(s *SeenStore) {
		s.now = now
	}
}

func NewSeenStore(opts ...SeenOption) *SeenStore {
	s := &SeenStore{
		ttl:           DefaultSeenTTL,
		sweepInterval: DefaultSeenSweepInterval,
		now:           time.Now,
		entries:       make(map[seenKey]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SeenStore) Add(ctx context.Context, channel types.Channel, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.evict(now)
		s.nextSweep = now.Add(s.sweepInterval)
	}

	key := seenKey{channel: channel, id: id}
	if expiresAt, exists := s.entries[key]; exists && now.Before(expiresAt) {
		return false, nil
	}
	s.entries[key] = now.Add(s.ttl)
	return true, nil
}

func (s *SeenStore) Remove(ctx context.Context, channel types.Channel, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, seenKey{channel: channel, id: id})
	return nil
}

// Len returns the number of live entries
func (s *SeenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for _, expiresAt := range s.entries {
		if now.Before(expiresAt) {
			n++
		}
	}
	return n
}

func (s *SeenStore) evict(now time.Time) {
	for k, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, k)
		}
	}
}
