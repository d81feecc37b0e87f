package storage

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

var (
	// ErrEmptyKey indicates a write with an empty key.
	ErrEmptyKey = errors.New("configuration key must not be empty")
	// ErrKeyConflict indicates a write that would replace a subtree of keys
	// or nest a key beneath an existing value.
	ErrKeyConflict = errors.New("configuration key conflicts with existing keys")
	// ErrNotMapping indicates a store file whose top level is not a mapping.
	ErrNotMapping = errors.New("store file must contain a mapping")
)

var (
	_ settings.Store = (*MemoryStore)(nil)
	_ settings.Store = (*KoanfStore)(nil)
)

// MemoryStore keeps configuration in-memory and guards access with a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore initialises a store with a copy of the provided values.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

// Get returns the stored string for key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	return nil
}

// SetLong stores value in base 10.
func (s *MemoryStore) SetLong(key string, value int64) error {
	return s.Set(key, strconv.FormatInt(value, 10))
}

// SetString stores value verbatim.
func (s *MemoryStore) SetString(key, value string) error {
	return s.Set(key, value)
}

// SetBoolean stores "true" or "false".
func (s *MemoryStore) SetBoolean(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// SetDouble stores the shortest representation that reads back as value.
func (s *MemoryStore) SetDouble(key string, value float64) error {
	return s.Set(key, strconv.FormatFloat(value, 'g', -1, 64))
}

// Snapshot returns a copy of every stored entry.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.values)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
