package cli

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/hashhooshy/flux-labs/pkg/adapters/file"
	"github.com/hashhooshy/flux-labs/pkg/adapters/memory"
	"github.com/hashhooshy/flux-labs/pkg/adapters/redis"
	"github.com/hashhooshy/flux-labs/pkg/persistence/middleware"
	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// StoreBundle is a configured document store plus the pieces that travel
// with it: an optional distributed locker (Redis only) and a close function.
type StoreBundle struct {
	Store  ports.DocumentStore
	Locker ports.DistributedLocker
	Close  func() error
}

// BuildStore resolves the --store flag into a ready document store.
//
// Flags win over environment variables: --redis-addr falls back to
// FLUX_REDIS_ADDR, --data-dir to FLUX_DATA_DIR. When FLUX_ENCRYPT_KEY or
// FLUX_REDACT_PATTERNS are set, the store is wrapped in the matching
// persistence middleware, encryption innermost so redaction sees field names
// before they are sealed.
func BuildStore(kind, redisAddr, dataDir string) (*StoreBundle, error) {
	bundle := &StoreBundle{Close: func() error { return nil }}

	switch kind {
	case "", "memory":
		bundle.Store = memory.NewStore()
	case "file":
		if dataDir == "" {
			dataDir = os.Getenv("FLUX_DATA_DIR")
		}
		bundle.Store = file.NewStore(dataDir)
	case "redis":
		if redisAddr == "" {
			redisAddr = os.Getenv("FLUX_REDIS_ADDR")
		}
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		client := backend.NewClient(&backend.Options{Addr: redisAddr})
		bundle.Store = redis.NewFromClient(client)
		bundle.Locker = redis.NewLocker(client, "flux:")
		bundle.Close = client.Close
	default:
		return nil, fmt.Errorf("unknown store %q (expected memory, file or redis)", kind)
	}

	mws, err := middlewareFromEnv()
	if err != nil {
		return nil, err
	}
	for _, mw := range mws {
		bundle.Store = mw(bundle.Store)
	}

	return bundle, nil
}

func middlewareFromEnv() ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if raw := os.Getenv("FLUX_ENCRYPT_KEY"); raw != "" {
		key, err := parseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("FLUX_ENCRYPT_KEY: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}

	if raw := os.Getenv("FLUX_REDACT_PATTERNS"); raw != "" {
		var patterns []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		if len(patterns) > 0 {
			mws = append(mws, middleware.NewRedactMiddleware(patterns))
		}
	}

	return mws, nil
}

// parseKey accepts a 64-character hex string or a raw 32-byte value.
func parseKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		if key, err := hex.DecodeString(raw); err == nil {
			return key, nil
		}
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes (or 64 hex characters), got %d bytes", len(raw))
	}
	return []byte(raw), nil
}

// ResolveUser picks the persistence owner: the explicit flag, then FLUX_USER,
// then a generated anonymous id.
func ResolveUser(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("FLUX_USER"); env != "" {
		return env
	}
	return "anon-" + uuid.NewString()
}
