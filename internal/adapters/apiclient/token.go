package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

// StoreTokenSource reads the access token from a key-value store on every request.
type StoreTokenSource struct {
	store domain.KeyValueStore
	now   func() time.Time
}

// NewStoreTokenSource returns a TokenSource backed by store.
func NewStoreTokenSource(store domain.KeyValueStore) *StoreTokenSource {
	return &StoreTokenSource{store: store, now: time.Now}
}

// Token returns the stored token, or "" when none is stored. A JWT whose exp is
// in the past yields domain.ErrTokenExpired so the request is never sent.
func (s *StoreTokenSource) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, domain.AccessTokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load access token: %w", err)
	}
	if tokenExpired(token, s.now()) {
		return "", domain.ErrTokenExpired
	}
	return token, nil
}

// tokenExpired inspects the exp claim without verifying the signature; the backend does that.
// Tokens that are not JWTs are treated as opaque and never expire here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}

// TokenSourceFunc adapts a function to domain.TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
