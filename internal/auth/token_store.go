package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/IAmShivay/motorcarbackedn/internal/cache"
)

const refreshTokenKeyPrefix = "motorcar:refresh_token:"

// TokenStoreInterface defines the refresh token whitelist operations.
// A refresh token is honored only while its jti is present in the store,
// so logout revokes it before its signed expiry.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore handles storage and retrieval of refresh tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken whitelists a refresh token jti with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, []byte(userID), ttl)
}

// GetRefreshToken returns the user id bound to a whitelisted jti.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return "", fmt.Errorf("refresh token not found")
	}
	return string(data), nil
}

// DeleteRefreshToken removes a refresh token from the whitelist.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
