package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiflun/storefront/internal/hash"
	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/token"
)

type fakeAdminRepo struct {
	admin *models.Admin
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if r.admin != nil && r.admin.Email == email {
		return r.admin, nil
	}
	return nil, fmt.Errorf("%w: admin %s", ErrNotFound, email)
}

func newTestAuth(t *testing.T) *Auth {
	t.Helper()

	passwordHash, err := hash.HashPassword("correct-horse")
	require.NoError(t, err)

	return &Auth{
		Repo:      &fakeAdminRepo{admin: &models.Admin{ID: "a1", Email: "admin@tiflun.shop", PasswordHash: passwordHash}},
		JWTSecret: []byte("test-jwt-secret"),
	}
}

func TestAuthLogin_IssuesToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	signed, err := svc.Login(context.Background(), "admin@tiflun.shop", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := token.Parse(signed, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin@tiflun.shop", claims.Email)
	assert.Equal(t, "a1", claims.Subject)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	_, err := svc.Login(context.Background(), "admin@tiflun.shop", "wrong-horse")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	// unknown email reports the same error as a bad password
	_, err := svc.Login(context.Background(), "nobody@tiflun.shop", "correct-horse")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthLogin_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	_, err := svc.Login(context.Background(), "not-an-email", "correct-horse")
	require.Error(t, err)

	_, err = svc.Login(context.Background(), "admin@tiflun.shop", "abc")
	require.Error(t, err)
}

func TestTokenParse_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	signed, err := svc.Login(context.Background(), "admin@tiflun.shop", "correct-horse")
	require.NoError(t, err)

	_, err = token.Parse(signed, []byte("other-secret"))
	require.Error(t, err)
}
