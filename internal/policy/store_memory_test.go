package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	t.Run("get missing returns sentinel", func(t *testing.T) {
		_, err := store.Get(ctx, id.RoleHR, id.FieldPersonalMobile)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("upsert then get returns a copy", func(t *testing.T) {
		p := &FieldAccessPolicy{Role: id.RoleHR, Field: id.FieldPersonalMobile, CanView: true, MaxRequestsPerDay: 5}
		require.NoError(t, store.Upsert(ctx, p))

		got, err := store.Get(ctx, id.RoleHR, id.FieldPersonalMobile)
		require.NoError(t, err)
		assert.True(t, got.CanView)

		// Mutating the returned row must not leak into the store.
		got.CanView = false
		again, err := store.Get(ctx, id.RoleHR, id.FieldPersonalMobile)
		require.NoError(t, err)
		assert.True(t, again.CanView)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id.RoleHR, id.FieldPersonalMobile))
		_, err := store.Get(ctx, id.RoleHR, id.FieldPersonalMobile)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, id.RoleHR, id.FieldPersonalMobile), sentinel.ErrNotFound)
	})

	t.Run("list is sorted by role then field", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, &FieldAccessPolicy{Role: id.RoleHR, Field: id.FieldNationalID}))
		require.NoError(t, store.Upsert(ctx, &FieldAccessPolicy{Role: id.RoleAdmin, Field: id.FieldSalary}))
		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, id.RoleAdmin, list[0].Role)
	})
}
