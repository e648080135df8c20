// Package tests provides reusable contract suites for port implementations.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// RunDocumentStoreContract runs a suite of tests to verify that a
// DocumentStore implementation adheres to the interface contract.
func RunDocumentStoreContract(t *testing.T, store ports.DocumentStore) {
	ctx := context.Background()
	userID := "contract-user-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := store.SetField(ctx, userID, "favoriteColor", "teal")
		require.NoError(t, err, "SetField should not return error")

		got, err := store.GetField(ctx, userID, "favoriteColor")
		require.NoError(t, err, "GetField should not return error")
		assert.Equal(t, "teal", got)
	})

	t.Run("Get Missing Field", func(t *testing.T) {
		_, err := store.GetField(ctx, userID, "never-written")
		assert.ErrorIs(t, err, domain.ErrFieldNotFound)
	})

	t.Run("Get Missing Document", func(t *testing.T) {
		_, err := store.GetField(ctx, "nobody-"+userID, "anything")
		assert.ErrorIs(t, err, domain.ErrFieldNotFound)
	})

	t.Run("Merge Semantics", func(t *testing.T) {
		require.NoError(t, store.SetField(ctx, userID, "a", "1"))
		require.NoError(t, store.SetField(ctx, userID, "b", "2"))

		// Overwriting one field leaves the other untouched.
		require.NoError(t, store.SetField(ctx, userID, "a", "changed"))

		a, err := store.GetField(ctx, userID, "a")
		require.NoError(t, err)
		assert.Equal(t, "changed", a)

		b, err := store.GetField(ctx, userID, "b")
		require.NoError(t, err)
		assert.Equal(t, "2", b)
	})

	t.Run("Fields Snapshot", func(t *testing.T) {
		fields, err := store.Fields(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "changed", fields["a"])
		assert.Equal(t, "2", fields["b"])

		// Absent documents yield an empty map, not an error.
		empty, err := store.Fields(ctx, "nobody-"+userID)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("User Isolation", func(t *testing.T) {
		other := "other-" + userID
		require.NoError(t, store.SetField(ctx, other, "a", "theirs"))

		mine, err := store.GetField(ctx, userID, "a")
		require.NoError(t, err)
		assert.Equal(t, "changed", mine, "another user's write must not leak")

		require.NoError(t, store.DeleteField(ctx, other, "a"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SetField(ctx, userID, "doomed", "x"))
		require.NoError(t, store.DeleteField(ctx, userID, "doomed"))

		_, err := store.GetField(ctx, userID, "doomed")
		assert.ErrorIs(t, err, domain.ErrFieldNotFound, "GetField after Delete should report absence")

		// Deleting twice is a no-op.
		assert.NoError(t, store.DeleteField(ctx, userID, "doomed"))
	})
}
