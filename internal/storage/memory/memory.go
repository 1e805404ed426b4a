// Package memory keeps snapshots in process memory. Nothing survives a
// restart; it backs tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"finledger/internal/core"
	"finledger/internal/storage"
)

type Store struct {
	mu        sync.Mutex
	snapshots map[string]core.Snapshot
	saves     int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{snapshots: map[string]core.Snapshot{}}
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(_ context.Context, identity string) (core.Snapshot, error) {
	if err := storage.ValidateIdentity(identity); err != nil {
		return core.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[identity]
	if !ok {
		return core.Snapshot{}, fmt.Errorf("identity %q: %w", identity, storage.ErrNotFound)
	}
	return snap.Clone(), nil
}

// Save stores a copy of snap.
func (s *Store) Save(_ context.Context, identity string, snap core.Snapshot) error {
	if err := storage.ValidateIdentity(identity); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[identity] = snap.Clone()
	s.saves++
	return nil
}

// Saves counts successful Save calls.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Identities lists stored identities alphabetically.
func (s *Store) Identities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
