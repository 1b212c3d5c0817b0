package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory implementation of the blob contract, used in
// tests instead of the filesystem-backed store.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, content io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}

	key := generateKey(originalName)

	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()

	return "http://localhost:8080/uploads/" + key, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[key]; !ok {
		return false, nil
	}
	delete(s.blobs, key)
	return true, nil
}

// Get returns the stored payload for key.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[key]
	return data, ok
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.blobs)
}
