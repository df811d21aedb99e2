package memory

// Package memory provides in-process adapters for development and tests.

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ticketdesk/admin-console/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// KVStore is an in-memory ports.KVStore. State is lost on restart.
type KVStore struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore creates an empty in-memory store.
func NewKVStore() *KVStore {
	return &KVStore{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// NewKVStoreWithClock creates a store that reads time from now. Used by tests.
func NewKVStoreWithClock(now func() time.Time) *KVStore {
	s := NewKVStore()
	if now != nil {
		s.now = now
	}
	return s
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.items, key)
		return "", ports.ErrNotFound
	}
	return e.value, nil
}

func (s *KVStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if ttl < 0 {
		return errors.New("ttl cannot be negative")
	}

	e := entry{value: value}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.items[key] = e
	return nil
}

func (s *KVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

// Len reports the number of stored keys, including expired ones not yet evicted.
func (s *KVStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
