// Package session provides a generic TTL-bound keyed store for short-lived
// server-side workflow state. Entries live in a lock-striped concurrent map
// so operations on unrelated keys never contend; per-key operations are
// atomic. State is memory-resident only and lost on process restart.
package session

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ahlgren/helmsman/internal/uuid"
)

type entry[T any] struct {
	val       T
	createdAt time.Time
}

// Store holds values of type T under opaque random identifiers, each bound
// to a fixed TTL measured from creation.
type Store[T any] struct {
	data *xsync.MapOf[string, entry[T]]
	ttl  time.Duration
	now  func() time.Time
}

// New creates a Store whose entries expire ttl after creation.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		data: xsync.NewMapOf[string, entry[T]](),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create stores val under a fresh unguessable identifier and returns it.
func (s *Store[T]) Create(val T) string {
	id := uuid.New()
	s.data.Store(id, entry[T]{val: val, createdAt: s.now()})
	return id
}

// Get returns the value for id without consuming it. Expired entries are
// treated as absent and dropped.
func (s *Store[T]) Get(id string) (T, bool) {
	e, ok := s.data.Load(id)
	if !ok {
		var zero T
		return zero, false
	}
	if s.expired(e) {
		s.dropExpired(id)
		var zero T
		return zero, false
	}
	return e.val, true
}

// Update atomically replaces the value for id via fn. It reports whether
// the entry existed and was still live. The creation time, and therefore
// the TTL deadline, is unchanged.
func (s *Store[T]) Update(id string, fn func(T) T) bool {
	updated := false
	s.data.Compute(id, func(old entry[T], loaded bool) (entry[T], bool) {
		if !loaded {
			return old, true
		}
		if s.expired(old) {
			return old, true
		}
		updated = true
		return entry[T]{val: fn(old.val), createdAt: old.createdAt}, false
	})
	return updated
}

// Remove atomically deletes and returns the value for id. An expired entry
// is dropped and reported as absent, so at most one caller can ever observe
// a given entry through Remove.
func (s *Store[T]) Remove(id string) (T, bool) {
	e, ok := s.data.LoadAndDelete(id)
	if !ok || s.expired(e) {
		var zero T
		return zero, false
	}
	return e.val, true
}

// CleanupExpired drops all entries past their TTL and returns how many were
// removed. Cost is proportional to the number of live plus expired entries;
// foreground operations on other keys are not blocked.
func (s *Store[T]) CleanupExpired() int {
	removed := 0
	s.data.Range(func(id string, e entry[T]) bool {
		if s.expired(e) && s.dropExpired(id) {
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of entries, including any not yet swept.
func (s *Store[T]) Len() int {
	return s.data.Size()
}

func (s *Store[T]) expired(e entry[T]) bool {
	return s.now().Sub(e.createdAt) > s.ttl
}

// dropExpired deletes id only if the stored entry is still expired, so a
// concurrent Create reusing the slot is never clobbered.
func (s *Store[T]) dropExpired(id string) bool {
	dropped := false
	s.data.Compute(id, func(old entry[T], loaded bool) (entry[T], bool) {
		if loaded && s.expired(old) {
			dropped = true
			return old, true
		}
		return old, !loaded
	})
	return dropped
}
