package artifact

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps artifacts in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, runID, path string, content []byte) error {
	if s == nil {
		return ErrNilStore
	}
	key, err := objectKey(runID, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, runID, path string) ([]byte, error) {
	if s == nil {
		return nil, ErrNilStore
	}
	key, err := objectKey(runID, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, runID string) ([]string, error) {
	if s == nil {
		return nil, ErrNilStore
	}
	prefix, err := runPrefix(runID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 16)
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(out)
	return out, nil
}

// Locate returns "" since memory artifacts have no external address.
func (s *MemoryStore) Locate(_ context.Context, runID, path string) (string, error) {
	if s == nil {
		return "", ErrNilStore
	}
	if _, err := objectKey(runID, path); err != nil {
		return "", err
	}
	return "", nil
}
