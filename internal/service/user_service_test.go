package service

import (
	"context"
	"testing"

	"smartchecklist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(store *storeStub) *UserService {
	svc := NewUserService(store)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(newStoreStub())

	_, err := svc.Register(context.Background(), "ab", "password1")
	assertValidationError(t, err)
	_, err = svc.Register(context.Background(), "alice", "short1")
	assertValidationError(t, err)
	_, err = svc.Register(context.Background(), "alice", "lettersonly")
	assertValidationError(t, err)
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("hashes password", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		var saved *models.User
		store.users.(*userRepoStub).createFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := newTestUserService(store)

		user, err := svc.Register(context.Background(), "  alice ", "password1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		require.NotNil(t, saved)
		assert.NotEqual(t, "password1", saved.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("password1")))
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.users.(*userRepoStub).getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
			return &models.User{ID: 1, Username: name}, nil
		}
		svc := newTestUserService(store)

		_, err := svc.Register(context.Background(), "alice", "password1")
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeConflict))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newStoreStub()
	store.users.(*userRepoStub).getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		if name != "alice" {
			return nil, nil
		}
		return &models.User{ID: 3, Username: name, Password: string(hash)}, nil
	}
	svc := newTestUserService(store)

	user, err := svc.Authenticate(context.Background(), "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	for _, tc := range []struct{ username, password string }{
		{"alice", "wrongpass1"},
		{"mallory", "password1"},
	} {
		_, err := svc.Authenticate(context.Background(), tc.username, tc.password)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid username or password", appErr.Message)
	}
}

func TestUserService_RegisterThenAuthenticate(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewUserService(store)
	svc.hashCost = bcrypt.MinCost
	ctx := context.Background()

	created, err := svc.Register(ctx, "carol", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol", "password2")
	assert.True(t, models.IsCode(err, models.CodeConflict))

	user, err := svc.Authenticate(ctx, "carol", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	fetched, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", fetched.Username)
	assert.NotEmpty(t, fetched.Password)
}
