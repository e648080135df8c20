package memory

import (
	"context"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	docs map[string]map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]map[string]string),
	}
}

// SetField upserts a single field in the user's document, creating the
// document on first write.
func (s *Store) SetField(ctx context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		doc = make(map[string]string)
		s.docs[userID] = doc
	}
	doc[key] = value
	return nil
}

// GetField reads a single field from the user's document.
func (s *Store) GetField(ctx context.Context, userID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[userID][key]
	if !ok {
		return "", domain.ErrFieldNotFound
	}
	return value, nil
}

// Fields returns a copy of the user's document so callers can't mutate
// store state directly.
func (s *Store) Fields(ctx context.Context, userID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.docs[userID]))
	for k, v := range s.docs[userID] {
		out[k] = v
	}
	return out, nil
}

// DeleteField removes a single field. Absent fields and documents are a
// no-op.
func (s *Store) DeleteField(ctx context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[userID], key)
	return nil
}

// Users returns the ids that currently hold a document. Used by the data
// subcommand to list what is persisted.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.docs))
	for id := range s.docs {
		users = append(users, id)
	}
	return users, nil
}
