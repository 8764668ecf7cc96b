package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheDisabled is returned by operations that need Redis when none is configured.
var ErrCacheDisabled = errors.New("redis cache is not configured")

// TokenBlacklist stores revoked session token ids until they expire.
type TokenBlacklist struct{}

// NewTokenBlacklist returns a blacklist backed by the package client.
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{}
}

// Revoke marks jti as revoked for ttl. Tokens already past expiry are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return ErrCacheDisabled
	}
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti was revoked. Without Redis nothing is revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil {
		return false, nil
	}
	err := client.Get(ctx, RevokedTokenKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
