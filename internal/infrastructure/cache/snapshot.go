// Package cache keeps in-memory snapshots of the reference catalogs used by
// every calculation and drops them when PostgreSQL reports a change.
package cache

import (
	"context"
	"sync"
	"time"
)

// LoadFunc loads the full contents of a catalog.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Snapshot lazily loads a catalog and serves it from memory until invalidated
// or until ttl elapses. A zero ttl means no expiry.
type Snapshot[T any] struct {
	name string
	load LoadFunc[T]
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	items    []T
	loadedAt time.Time
	valid    bool
	loads    int
}

// NewSnapshot creates a snapshot of the catalog identified by name (the table
// name reported by catalog_changed notifications).
func NewSnapshot[T any](name string, load LoadFunc[T], ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{
		name: name,
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Name returns the catalog name.
func (s *Snapshot[T]) Name() string { return s.name }

// ListActive returns the cached rows, loading them first when needed.
// The returned slice is shared; callers must not modify it.
func (s *Snapshot[T]) ListActive(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	if s.fresh() {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have reloaded while we waited for the lock.
	if s.fresh() {
		return s.items, nil
	}

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.items = items
	s.loadedAt = s.now()
	s.valid = true
	s.loads++
	return items, nil
}

func (s *Snapshot[T]) fresh() bool {
	if !s.valid {
		return false
	}
	return s.ttl <= 0 || s.now().Sub(s.loadedAt) < s.ttl
}

// Invalidate drops the cached rows; the next ListActive reloads.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.items = nil
	s.mu.Unlock()
}

// Stats reports cache state.
type Stats struct {
	Name     string    `json:"name"`
	Cached   bool      `json:"cached"`
	Items    int       `json:"items"`
	Loads    int       `json:"loads"`
	LoadedAt time.Time `json:"loadedAt,omitzero"`
}

// Stats returns a snapshot of the cache state.
func (s *Snapshot[T]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Name:     s.name,
		Cached:   s.valid,
		Items:    len(s.items),
		Loads:    s.loads,
		LoadedAt: s.loadedAt,
	}
}
