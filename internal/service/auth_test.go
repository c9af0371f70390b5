package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/grocery_shop/internal/hash"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/testutil"
	"github.com/Skotchmaster/grocery_shop/internal/tokens"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

func newAuth(t *testing.T) *AuthService {
	return &AuthService{
		Repo:          &repo.GormRepo{DB: testutil.InitTestDB(t)},
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func TestAuth_RegisterLogin(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	creds := transport.Credentials{Email: "Asha@Example.com", Password: "secret1"}

	u, err := s.Register(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = s.Register(ctx, creds)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Register(ctx, transport.Credentials{Email: "nope", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)

	res, err := s.Login(ctx, creds)
	require.NoError(t, err)
	assert.False(t, res.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, s.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)

	_, err = s.Login(ctx, transport.Credentials{Email: creds.Email, Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, transport.Credentials{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	creds := transport.Credentials{Email: "asha@example.com", Password: "secret1"}
	_, err := s.Register(ctx, creds)
	require.NoError(t, err)

	first, err := s.Login(ctx, creds)
	require.NoError(t, err)

	second, err := s.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, s.Logout(ctx, second.RefreshToken))
	_, err = s.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_EnsureAdmin(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "", ""))
	require.NoError(t, s.EnsureAdmin(ctx, "admin@shop.in", "adminpass"))
	require.NoError(t, s.EnsureAdmin(ctx, "admin@shop.in", "adminpass"))

	res, err := s.Login(ctx, transport.Credentials{Email: "admin@shop.in", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)

	_, err = s.Register(ctx, transport.Credentials{Email: "owner@shop.in", Password: "ownerpass"})
	require.NoError(t, err)
	require.NoError(t, s.EnsureAdmin(ctx, "owner@shop.in", "ignored"))
	u, err := s.Repo.GetUserByEmail(ctx, "owner@shop.in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestAuth_LoginUpgradesWeakHash(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()

	weak, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.Repo.CreateUserIfNotExists(ctx, &models.User{
		Email: "old@example.com", PasswordHash: string(weak), Role: models.RoleUser,
	}))

	_, err = s.Login(ctx, transport.Credentials{Email: "old@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := s.Repo.GetUserByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.False(t, hash.NeedsRehash(u.PasswordHash))
	assert.True(t, hash.CheckPassword(u.PasswordHash, "secret1"))
}
