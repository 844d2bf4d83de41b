package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/varshinivarma16/booksbackend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func newService() *Service {
	return NewService(NewMemoryUserRepository()).WithCost(bcrypt.MinCost)
}

func TestSignupAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "secret", "")
	require.ErrorIs(t, err, ErrInvalidRole)

	u, err := svc.Signup(ctx, "alice", "alice@example.com", "secret", "student")
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, u.Role)
	require.NotEqual(t, "secret", u.Password)

	_, err = svc.Signup(ctx, "alice", "other@example.com", "x", "faculty")
	require.ErrorIs(t, err, ErrExists)
	_, err = svc.Signup(ctx, "bob", "alice@example.com", "x", "faculty")
	require.ErrorIs(t, err, ErrExists)
	_, err = svc.Signup(ctx, "bob", "bob@example.com", "x", "janitor")
	require.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.Signup(ctx, "bob", "", "x", "")
	require.ErrorIs(t, err, ErrMissingFields)

	got, err := svc.Authenticate(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRoleAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	u, err := svc.Signup(ctx, "carol", "carol@example.com", "pw", "student")
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, u.ID.Hex(), "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", updated.Role)

	_, err = svc.UpdateRole(ctx, u.ID.Hex(), "root")
	require.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.UpdateRole(ctx, "65f000000000000000000000", "admin")
	require.ErrorIs(t, err, ErrUserNotFound)

	got, err := svc.Get(ctx, u.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "admin", got.Role)
	_, err = svc.Get(ctx, "bad")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	u, err := svc.Authenticate(ctx, "admin1@example.com", "admin123")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, u.Role)
}

func TestUpsertFromClaims(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	claims := map[string]interface{}{"sub": "sub-123", "email": "x@example.com", "preferred_username": "xuser"}

	u, err := svc.UpsertFromClaims(ctx, claims)
	require.NoError(t, err)
	require.Equal(t, "xuser", u.Username)
	require.Equal(t, models.RoleStudent, u.Role)

	claims["email"] = "new@example.com"
	again, err := svc.UpsertFromClaims(ctx, claims)
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, "new@example.com", again.Email)

	none, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "y@e.com"})
	require.NoError(t, err)
	require.Nil(t, none)
}
