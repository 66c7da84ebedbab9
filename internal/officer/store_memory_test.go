package officer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigoffice/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	o := sampleOfficer()

	t.Run("create then get returns a copy", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, o))

		got, err := store.Get(ctx, o.ID)
		require.NoError(t, err)
		got.FullName = "changed"

		again, err := store.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.FullName, again.FullName, "mutating a returned record must not leak into the store")
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, o), sentinel.ErrConflict)
	})

	t.Run("update unknown officer", func(t *testing.T) {
		missing := sampleOfficer()
		assert.ErrorIs(t, store.Update(ctx, missing), sentinel.ErrNotFound)
	})

	t.Run("snapshot restores pre-transaction state", func(t *testing.T) {
		restore := store.Snapshot()

		changed := o.Clone()
		changed.Grade = 3
		require.NoError(t, store.Update(ctx, changed))

		restore()
		got, err := store.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.Grade, got.Grade)
	})
}
