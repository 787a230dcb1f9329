package otp

import (
	"context"
	"sync"
	"time"
)

type memKey struct {
	identity string
	purpose  Purpose
}

type memEntry struct {
	rec         Record
	retainUntil time.Time
}

// MemoryStore keeps records in process memory. Every operation holds one
// mutex, which makes Replace and Take atomic per key.
type MemoryStore struct {
	mu      sync.Mutex
	records map[memKey]memEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memKey]memEntry)}
}

func (s *MemoryStore) Replace(_ context.Context, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[memKey{rec.Identity, rec.Purpose}] = memEntry{rec: rec, retainUntil: rec.IssuedAt.Add(ttl)}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, identity string, purpose Purpose, code string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey{identity, purpose}
	e, ok := s.records[key]
	if !ok || e.rec.Code != code {
		return nil, ErrNoRecord
	}

	delete(s.records, key)
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) Lookup(_ context.Context, identity string, purpose Purpose) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[memKey{identity, purpose}]
	if !ok {
		return nil, ErrNoRecord
	}

	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) Sweep(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, e := range s.records {
		if e.retainUntil.Before(before) {
			delete(s.records, k)
			n++
		}
	}

	return n, nil
}

// Len counts records held for identity across all purposes.
func (s *MemoryStore) Len(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.records {
		if k.identity == identity {
			n++
		}
	}
	return n
}
