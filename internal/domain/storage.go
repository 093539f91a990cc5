package domain

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrTokenExpired = errors.New("access token expired")
)

// AccessTokenKey is the storage key holding the backend access token.
const AccessTokenKey = "access_token"

// KeyValueStore persists small string values such as the access token.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TokenSource yields the bearer token for outgoing requests. An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
