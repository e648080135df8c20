package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// lockEntry holds one user's mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes document access per user. It implements
// ports.DocumentStore, so it drops in front of any store. Entries are
// reference counted and removed as soon as the last holder releases them, so
// the lock map never grows with the user population.
type Manager struct {
	store ports.DocumentStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a crashed holder can wedge a user's document.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for deferred release errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager over the given store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and pair this with release(userID).
func (m *Manager) acquire(userID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		entry = &lockEntry{}
		m.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[userID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, userID)
	}
}

// WithLock executes fn while holding the user's lock, locally and, when a
// distributed locker is configured, across replicas.
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, it will expire via TTL",
					"user", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// SetField upserts one field of the user's document under the user's lock.
func (m *Manager) SetField(ctx context.Context, userID, field, value string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.SetField(ctx, userID, field, value)
	})
}

// GetField reads one field of the user's document under the user's lock.
func (m *Manager) GetField(ctx context.Context, userID, field string) (string, error) {
	var value string
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		value, err = m.store.GetField(ctx, userID, field)
		return err
	})
	return value, err
}

// Fields returns the user's whole document under the user's lock.
func (m *Manager) Fields(ctx context.Context, userID string) (map[string]string, error) {
	var fields map[string]string
	err := m.WithLock(ctx, userID, func(ctx context.Context) error {
		var err error
		fields, err = m.store.Fields(ctx, userID)
		return err
	})
	return fields, err
}

// DeleteField removes one field of the user's document under the user's lock.
func (m *Manager) DeleteField(ctx context.Context, userID, field string) error {
	return m.WithLock(ctx, userID, func(ctx context.Context) error {
		return m.store.DeleteField(ctx, userID, field)
	})
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}
