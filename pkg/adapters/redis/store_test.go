package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hashhooshy/flux-labs/pkg/adapters/redis"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	tests.RunDocumentStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)

	// Documents expire 1s after the last write.
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.SetField(ctx, "u1", "theme", "dark")
	assert.NoError(t, err)

	val, err := store.GetField(ctx, "u1", "theme")
	assert.NoError(t, err)
	assert.Equal(t, "dark", val)

	mr.FastForward(2 * time.Second)

	_, err = store.GetField(ctx, "u1", "theme")
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)

	fields, err := store.Fields(ctx, "u1")
	assert.NoError(t, err)
	assert.Empty(t, fields)
}

func TestRedisStore_TTL_RefreshedOnWrite(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(2*time.Second))
	ctx := context.Background()

	assert.NoError(t, store.SetField(ctx, "u1", "a", "1"))
	mr.FastForward(1 * time.Second)
	// The second write pushes the whole document's expiry out again.
	assert.NoError(t, store.SetField(ctx, "u1", "b", "2"))
	mr.FastForward(1500 * time.Millisecond)

	val, err := store.GetField(ctx, "u1", "a")
	assert.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.SetField(ctx, "u1", "theme", "dark")
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:u1"), "expected key with custom prefix")
	assert.False(t, mr.Exists("flux:data:u1"), "default prefix should be unused")
}
