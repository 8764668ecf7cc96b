package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"smartchecklist/internal/itemtree"
	"smartchecklist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uptr(v uint) *uint { return &v }

func TestDeleteSubtree_RecursiveQuery(t *testing.T) {
	t.Parallel()
	repo := &itemRepoStub{}
	var gotRoot uint
	var gotDepth int
	repo.deleteSubtreeFn = func(_ context.Context, rootID uint, maxDepth int) (int64, error) {
		gotRoot, gotDepth = rootID, maxDepth
		return 4, nil
	}

	n, err := DeleteSubtree(context.Background(), repo, 7, SubtreeOptions{Strategy: SubtreeRecursiveQuery, MaxDepth: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, uint(7), gotRoot)
	assert.Equal(t, 12, gotDepth)
}

func TestDeleteSubtree_DefaultsDepthAndStrategy(t *testing.T) {
	t.Parallel()
	repo := &itemRepoStub{}
	var gotDepth int
	repo.deleteSubtreeFn = func(_ context.Context, _ uint, maxDepth int) (int64, error) {
		gotDepth = maxDepth
		return 1, nil
	}

	_, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTreeDepth, gotDepth)
}

func TestDeleteSubtree_IndexWalk(t *testing.T) {
	t.Parallel()

	t.Run("deletes root and descendants only", func(t *testing.T) {
		t.Parallel()
		repo := &itemRepoStub{}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
			return &models.Item{ID: id, ChecklistID: 3}, nil
		}
		repo.parentIndexFn = func(_ context.Context, checklistID uint) ([]models.ItemRef, error) {
			assert.Equal(t, uint(3), checklistID)
			return []models.ItemRef{
				{ID: 1},
				{ID: 2, ParentItemID: uptr(1)},
				{ID: 3, ParentItemID: uptr(2)},
				{ID: 4},
				{ID: 5, ParentItemID: uptr(4)},
			}, nil
		}
		var deleted []uint
		repo.deleteByIDsFn = func(_ context.Context, ids []uint) (int64, error) {
			deleted = ids
			return int64(len(ids)), nil
		}

		n, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{Strategy: SubtreeIndexWalk})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.ElementsMatch(t, []uint{1, 2, 3}, deleted)
	})

	t.Run("follows children filed under other checklists", func(t *testing.T) {
		t.Parallel()
		// 1 -> 10 (checklist 4) -> 11 (back in 3) -> 12 (checklist 5)
		all := []models.ItemRef{
			{ID: 1},
			{ID: 2, ParentItemID: uptr(1)},
			{ID: 4},
			{ID: 10, ParentItemID: uptr(1)},
			{ID: 11, ParentItemID: uptr(10)},
			{ID: 12, ParentItemID: uptr(11)},
		}
		repo := &itemRepoStub{}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
			return &models.Item{ID: id, ChecklistID: 3}, nil
		}
		repo.parentIndexFn = func(context.Context, uint) ([]models.ItemRef, error) {
			return []models.ItemRef{all[0], all[1], all[2], all[4]}, nil
		}
		repo.childRefsFn = func(_ context.Context, parents []uint) ([]models.ItemRef, error) {
			var out []models.ItemRef
			for _, ref := range all {
				if ref.ParentItemID != nil && slices.Contains(parents, *ref.ParentItemID) {
					out = append(out, ref)
				}
			}
			return out, nil
		}
		var deleted []uint
		repo.deleteByIDsFn = func(_ context.Context, ids []uint) (int64, error) {
			deleted = ids
			return int64(len(ids)), nil
		}

		n, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{Strategy: SubtreeIndexWalk})
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
		assert.ElementsMatch(t, []uint{1, 2, 10, 11, 12}, deleted)
	})

	t.Run("missing root is a no-op", func(t *testing.T) {
		t.Parallel()
		repo := &itemRepoStub{}
		repo.deleteByIDsFn = func(context.Context, []uint) (int64, error) {
			t.Fatal("nothing should be deleted")
			return 0, nil
		}

		n, err := DeleteSubtree(context.Background(), repo, 99, SubtreeOptions{Strategy: SubtreeIndexWalk})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("cyclic records terminate", func(t *testing.T) {
		t.Parallel()
		repo := &itemRepoStub{}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
			return &models.Item{ID: id, ChecklistID: 1, ParentItemID: uptr(2)}, nil
		}
		repo.parentIndexFn = func(context.Context, uint) ([]models.ItemRef, error) {
			return []models.ItemRef{
				{ID: 1, ParentItemID: uptr(2)},
				{ID: 2, ParentItemID: uptr(1)},
			}, nil
		}

		n, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{Strategy: SubtreeIndexWalk})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		repo := &itemRepoStub{}
		repo.getByIDFn = func(context.Context, uint) (*models.Item, error) { return nil, boom }

		_, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{Strategy: SubtreeIndexWalk})
		assert.ErrorIs(t, err, boom)
	})
}

func TestDeleteSubtree_TooDeepIsConflict(t *testing.T) {
	t.Parallel()

	for _, strategy := range []SubtreeStrategy{SubtreeRecursiveQuery, SubtreeIndexWalk} {
		strategy := strategy
		t.Run(string(strategy), func(t *testing.T) {
			t.Parallel()
			repo := &itemRepoStub{}
			repo.deleteSubtreeFn = func(context.Context, uint, int) (int64, error) {
				return 0, fmt.Errorf("subtree of %d: %w", 1, itemtree.ErrTooDeep)
			}
			repo.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
				return &models.Item{ID: id, ChecklistID: 1}, nil
			}
			repo.parentIndexFn = func(context.Context, uint) ([]models.ItemRef, error) {
				return []models.ItemRef{
					{ID: 1},
					{ID: 2, ParentItemID: uptr(1)},
					{ID: 3, ParentItemID: uptr(2)},
				}, nil
			}

			_, err := DeleteSubtree(context.Background(), repo, 1, SubtreeOptions{Strategy: strategy, MaxDepth: 1})
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeConflict))
			assert.ErrorIs(t, err, itemtree.ErrTooDeep)
		})
	}
}
