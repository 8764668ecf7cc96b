package service

import (
	"context"
	"strings"
	"testing"

	"smartchecklist/internal/featureflags"
	"smartchecklist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateItem_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   CreateItemInput
		msg  string
	}{
		{"blank content", CreateItemInput{UserID: 1, ChecklistID: 1, Content: "   "}, "Content cannot be empty"},
		{"content too long", CreateItemInput{UserID: 1, ChecklistID: 1, Content: strings.Repeat("x", 10001)}, "Content must not exceed 10000 characters"},
		{"non numeric parent", CreateItemInput{UserID: 1, ChecklistID: 1, Content: "Milk", ParentItemID: "abc"}, "Invalid parent_item_id"},
		{"zero parent", CreateItemInput{UserID: 1, ChecklistID: 1, Content: "Milk", ParentItemID: "0"}, "Invalid parent_item_id"},
		{"url too long", CreateItemInput{UserID: 1, ChecklistID: 1, Content: "Milk", URL: strings.Repeat("a", 2049)}, "URL must not exceed 2048 characters"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := newStoreStub()
			store.items.createFn = func(context.Context, *models.Item) error {
				t.Fatal("invalid input must not reach the repository")
				return nil
			}
			svc := NewItemService(store, Options{})
			_, err := svc.CreateItem(context.Background(), tc.in)
			assertValidationError(t, err, tc.msg)
		})
	}
}

func TestItemService_CreateItem_ParentChecks(t *testing.T) {
	t.Parallel()

	t.Run("parent missing", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		svc := NewItemService(store, Options{})
		_, err := svc.CreateItem(context.Background(), CreateItemInput{
			UserID: 1, ChecklistID: 1, Content: "2%", ParentItemID: "42",
		})
		assertValidationError(t, err, "Invalid parent_item_id")
	})

	t.Run("parent in another checklist", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.items.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
			return &models.Item{ID: id, ChecklistID: 2}, nil
		}
		svc := NewItemService(store, Options{})
		_, err := svc.CreateItem(context.Background(), CreateItemInput{
			UserID: 1, ChecklistID: 1, Content: "2%", ParentItemID: "42",
		})
		assertValidationError(t, err, "Invalid parent_item_id")
	})

	t.Run("checklist not owned", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.checklists.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Checklist, error) {
			return nil, models.NewNotFoundError("Checklist", id)
		}
		svc := NewItemService(store, Options{})
		_, err := svc.CreateItem(context.Background(), CreateItemInput{UserID: 1, ChecklistID: 9, Content: "Milk"})
		assertNotFound(t, err)
	})
}

func TestItemService_CreateItem_NormalizesInput(t *testing.T) {
	t.Parallel()
	store := newStoreStub()
	store.items.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
		return &models.Item{ID: id, ChecklistID: 1}, nil
	}
	var saved *models.Item
	store.items.createFn = func(_ context.Context, item *models.Item) error {
		saved = item
		return nil
	}
	svc := NewItemService(store, Options{})

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		UserID: 1, ChecklistID: 1, Content: "  Milk  ", URL: " example.com ", ParentItemID: " 5 ",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Milk", item.Content)
	require.NotNil(t, item.URL)
	assert.Equal(t, "https://example.com", *item.URL)
	require.NotNil(t, item.ParentItemID)
	assert.Equal(t, uint(5), *item.ParentItemID)
	assert.False(t, item.Checked)
}

func TestItemService_ScopeMismatchIsNotFound(t *testing.T) {
	t.Parallel()
	store := newStoreStub()
	store.items.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
		return &models.Item{ID: id, ChecklistID: 2}, nil
	}
	svc := NewItemService(store, Options{})

	_, err := svc.ToggleItem(context.Background(), ItemScope{UserID: 1, ChecklistID: 1, ItemID: 3})
	assertNotFound(t, err)

	res, err := svc.ToggleItem(context.Background(), ItemScope{UserID: 1, ItemID: 3})
	require.NoError(t, err)
	assert.True(t, res.Checked)
}

func TestItemService_EditItem_Validation(t *testing.T) {
	t.Parallel()
	store := newStoreStub()
	store.items.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
		return &models.Item{ID: id, ChecklistID: 1, Content: "old"}, nil
	}
	svc := NewItemService(store, Options{})

	blank := " "
	_, err := svc.EditItem(context.Background(), EditItemInput{
		ItemScope: ItemScope{UserID: 1, ItemID: 1},
		Content:   &blank,
	})
	assertValidationError(t, err, "Content cannot be empty")
}

func TestItemService_DeleteItem_StrategyFollowsFlag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		flags    string
		walk     bool
		strategy SubtreeStrategy
	}{
		{"cte_subtree_delete=on", false, SubtreeRecursiveQuery},
		{"cte_subtree_delete=off", true, SubtreeIndexWalk},
		{"", false, SubtreeRecursiveQuery},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.strategy)+"/"+tc.flags, func(t *testing.T) {
			t.Parallel()
			store := newStoreStub()
			store.items.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
				return &models.Item{ID: id, ChecklistID: 1}, nil
			}
			store.items.getByIDFn = func(_ context.Context, id uint) (*models.Item, error) {
				return &models.Item{ID: id, ChecklistID: 1}, nil
			}
			store.items.parentIndexFn = func(context.Context, uint) ([]models.ItemRef, error) {
				return []models.ItemRef{{ID: 1}}, nil
			}
			usedQuery := false
			store.items.deleteSubtreeFn = func(context.Context, uint, int) (int64, error) {
				usedQuery = true
				return 1, nil
			}

			svc := NewItemService(store, Options{Flags: featureflags.NewManager(tc.flags)})
			n, err := svc.DeleteItem(context.Background(), ItemScope{UserID: 1, ItemID: 1})
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			assert.Equal(t, !tc.walk, usedQuery)
		})
	}
}

func TestItemService_ToggleItem_ReportsNewState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		was  bool
		want string
	}{
		{false, "Item marked as checked"},
		{true, "Item marked as unchecked"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			store := newStoreStub()
			store.items.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
				return &models.Item{ID: id, ChecklistID: 1, Checked: tc.was}, nil
			}
			var written *bool
			store.items.setCheckedFn = func(_ context.Context, _ *models.Item, checked bool) error {
				written = &checked
				return nil
			}
			svc := NewItemService(store, Options{})

			res, err := svc.ToggleItem(context.Background(), ItemScope{UserID: 1, ItemID: 3})
			require.NoError(t, err)
			require.NotNil(t, written)
			assert.Equal(t, !tc.was, *written)
			assert.Equal(t, !tc.was, res.Checked)
			assert.Equal(t, !tc.was, res.Item.Checked)
			assert.Equal(t, tc.want, res.Message)
		})
	}
}

func TestItemService_OwnershipCheckedBeforeValidation(t *testing.T) {
	t.Parallel()
	store := newStoreStub()
	store.checklists.getOwnedFn = func(_ context.Context, id, _ uint) (*models.Checklist, error) {
		return nil, models.NewNotFoundError("Checklist", id)
	}
	svc := NewItemService(store, Options{})
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{UserID: 2, ChecklistID: 1, Content: " ", ParentItemID: "abc"})
	assertNotFound(t, err)

	blank := ""
	_, err = svc.EditItem(ctx, EditItemInput{ItemScope: ItemScope{UserID: 2, ItemID: 1}, Content: &blank})
	assertNotFound(t, err)

	checklists := NewChecklistService(store, Options{})
	_, err = checklists.UpdateChecklist(ctx, UpdateChecklistInput{UserID: 2, ChecklistID: 1, Title: " "})
	assertNotFound(t, err)
}
