package cache

import (
	"context"
	"errors"
	"fmt"
)

// LayeredStore checks a bounded memory store first and falls back to a
// shared store. Shared hits are promoted into memory.
type LayeredStore struct {
	memory *MemoryStore
	shared Store
}

// NewLayeredStore combines a memory store with a shared store (usually Redis).
func NewLayeredStore(memory *MemoryStore, shared Store) *LayeredStore {
	if memory == nil || shared == nil {
		panic("layered store requires both a memory and a shared store")
	}
	return &LayeredStore{
		memory: memory,
		shared: shared,
	}
}

// Get returns the memory entry if present, otherwise the shared entry.
// A shared store failure is returned as-is so callers can log it; callers
// treat any error as a miss.
func (s *LayeredStore) Get(ctx context.Context, key Key) (*Entry, error) {
	if entry, err := s.memory.Get(ctx, key); err == nil {
		return entry, nil
	}

	entry, err := s.shared.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Promote so the next lookup is served from memory
	if err := s.memory.Set(ctx, key, entry); err != nil {
		return nil, fmt.Errorf("promote entry: %w", err)
	}

	return entry, nil
}

// Set writes the entry to both layers. The memory write always happens; a
// shared store failure is reported but does not undo it.
func (s *LayeredStore) Set(ctx context.Context, key Key, entry *Entry) error {
	if err := s.memory.Set(ctx, key, entry); err != nil {
		return err
	}
	if err := s.shared.Set(ctx, key, entry); err != nil {
		return fmt.Errorf("shared store: %w", err)
	}
	return nil
}

// Len returns the number of entries in the memory layer.
func (s *LayeredStore) Len() int {
	return s.memory.Len()
}

// Ping checks the shared layer when it supports health checks.
func (s *LayeredStore) Ping(ctx context.Context) error {
	pinger, ok := s.shared.(interface{ Ping(context.Context) error })
	if !ok {
		return errors.New("shared store does not support ping")
	}
	return pinger.Ping(ctx)
}
