package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates document access across replicas. Hosts that
// run a single process can leave it nil; the session manager then falls back
// to local mutexes only.
type DistributedLocker interface {
	// Lock acquires the lock for a key, blocking until it is held, the
	// context is canceled, or the backend gives up. The returned UnlockFunc
	// must be called to release it; the TTL bounds how long a crashed holder
	// can wedge the key.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
