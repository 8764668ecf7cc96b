package itemtree

import (
	"testing"

	"smartchecklist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(id uint, parent *uint) models.ItemRef {
	return models.ItemRef{ID: id, ParentItemID: parent}
}

func TestDescendants(t *testing.T) {
	t.Parallel()

	refs := []models.ItemRef{
		ref(1, nil),
		ref(2, ptr(1)),
		ref(3, ptr(1)),
		ref(4, ptr(2)),
		ref(5, nil),
		ref(6, ptr(5)),
	}

	t.Run("root and all descendants", func(t *testing.T) {
		t.Parallel()
		got, err := Descendants(refs, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3, 4}, got)
	})

	t.Run("leaf", func(t *testing.T) {
		t.Parallel()
		got, err := Descendants(refs, 4, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{4}, got)
	})

	t.Run("unknown root", func(t *testing.T) {
		t.Parallel()
		got, err := Descendants(refs, 42, 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("cycle terminates", func(t *testing.T) {
		t.Parallel()
		cyclic := []models.ItemRef{ref(1, ptr(3)), ref(2, ptr(1)), ref(3, ptr(2))}
		got, err := Descendants(cyclic, 1, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{1, 2, 3}, got)
	})

	t.Run("self parent", func(t *testing.T) {
		t.Parallel()
		got, err := Descendants([]models.ItemRef{ref(7, ptr(7))}, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{7}, got)
	})

	t.Run("depth limit", func(t *testing.T) {
		t.Parallel()
		_, err := Descendants(refs, 1, 1)
		assert.ErrorIs(t, err, ErrTooDeep)

		got, err := Descendants(refs, 1, 2)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})
}
