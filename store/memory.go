package store

import (
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and by one-shot runs
// that opt out of persistence.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) GetString(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if val, ok := s.values[key]; ok {
		return val
	}
	return fallback
}

func (s *MemoryStore) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = string(raw)
	return nil
}

func (s *MemoryStore) GetJSON(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
