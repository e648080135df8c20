// Package file persists user documents as JSON files on the local
// filesystem, one document per user.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Store implements ports.DocumentStore on a directory of JSON documents. Each
// write re-reads, merges, and rewrites the user's file, so concurrent writers
// in the same process are serialized by an internal mutex.
type Store struct {
	basePath string
	mu       sync.Mutex
}

// NewStore creates a file store rooted at basePath. An empty basePath
// defaults to ".flux/data".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".flux", "data")
	}
	return &Store{basePath: basePath}
}

// BasePath returns the directory documents are written under.
func (f *Store) BasePath() string {
	return f.basePath
}

func (f *Store) path(userID string) string {
	return filepath.Join(f.basePath, userID+".json")
}

// SetField upserts one field of the user's document.
func (f *Store) SetField(ctx context.Context, userID, field, value string) error {
	if err := validUserID(userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read(userID)
	if err != nil {
		return err
	}
	doc[field] = value
	return f.write(userID, doc)
}

// GetField reads one field of the user's document.
func (f *Store) GetField(ctx context.Context, userID, field string) (string, error) {
	if err := validUserID(userID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read(userID)
	if err != nil {
		return "", err
	}
	value, ok := doc[field]
	if !ok {
		return "", domain.ErrFieldNotFound
	}
	return value, nil
}

// Fields returns the user's whole document. A user without one gets an empty
// map.
func (f *Store) Fields(ctx context.Context, userID string) (map[string]string, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(userID)
}

// DeleteField removes one field of the user's document. Deleting an absent
// field is a no-op.
func (f *Store) DeleteField(ctx context.Context, userID, field string) error {
	if err := validUserID(userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read(userID)
	if err != nil {
		return err
	}
	if _, ok := doc[field]; !ok {
		return nil
	}
	delete(doc, field)
	return f.write(userID, doc)
}

func (f *Store) read(userID string) (map[string]string, error) {
	data, err := os.ReadFile(f.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if doc == nil {
		doc = map[string]string{}
	}
	return doc, nil
}

func (f *Store) write(userID string, doc map[string]string) error {
	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure document directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(f.path(userID), data, 0644); err != nil {
		return fmt.Errorf("failed to write document file: %w", err)
	}
	return nil
}

// validUserID rejects ids that would escape the base directory.
func validUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	if strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return fmt.Errorf("invalid userID %q", userID)
	}
	return nil
}
