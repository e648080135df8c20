// Package redis persists user documents in Redis, one hash per user, and
// provides a distributed locker for multi-replica deployments.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.DocumentStore on a Redis hash per user.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration for user documents, refreshed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for user documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "flux:data:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(userID string) string {
	return s.prefix + userID
}

// SetField upserts one field of the user's document.
func (s *Store) SetField(ctx context.Context, userID, field, value string) error {
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.key(userID), field, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(userID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write field to redis: %w", err)
	}
	return nil
}

// GetField reads one field of the user's document.
func (s *Store) GetField(ctx context.Context, userID, field string) (string, error) {
	val, err := s.client.HGet(ctx, s.key(userID), field).Result()
	if err != nil {
		if err == backend.Nil {
			return "", domain.ErrFieldNotFound
		}
		return "", fmt.Errorf("failed to read field from redis: %w", err)
	}
	return val, nil
}

// Fields returns the user's whole document. A user without one gets an empty
// map.
func (s *Store) Fields(ctx context.Context, userID string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read document from redis: %w", err)
	}
	return fields, nil
}

// DeleteField removes one field of the user's document. Deleting an absent
// field is a no-op.
func (s *Store) DeleteField(ctx context.Context, userID, field string) error {
	if err := s.client.HDel(ctx, s.key(userID), field).Err(); err != nil {
		return fmt.Errorf("failed to delete field from redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
