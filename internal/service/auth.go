package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tiflun/storefront/internal/hash"
	"github.com/tiflun/storefront/internal/token"
	"github.com/tiflun/storefront/internal/validation"
)

const adminSessionTTL = 24 * time.Hour

// Auth authenticates the admin surface. There is a single tenant, so the
// session is one signed bearer token, no refresh rotation.
type Auth struct {
	Repo      AdminRepo
	JWTSecret []byte
}

func (s *Auth) Login(ctx context.Context, email, password string) (string, error) {
	creds := validation.AdminLogin{Email: email, Password: password}
	if err := validation.AdminCredentials(&creds); err != nil {
		return "", err
	}

	admin, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: unknown email or password", ErrUnauthorized)
		}
		return "", err
	}

	if !hash.CheckPassword(admin.PasswordHash, password) {
		return "", fmt.Errorf("%w: unknown email or password", ErrUnauthorized)
	}

	signed, err := token.Sign(admin.ID, admin.Email, s.JWTSecret, adminSessionTTL)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}
