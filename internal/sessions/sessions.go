package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/desertthunder/mixtape/internal/shared"
)

// TokenBytes is the number of random bytes in a token; the encoded token is twice as long.
const TokenBytes = 24

// ErrSessionNotFound is returned by [Store.Resolve] for unknown or revoked tokens.
var ErrSessionNotFound = errors.New("session not found")

// Store binds tokens to usernames.
type Store interface {
	// Issue creates a new token bound to username. Tokens are not checked for collisions.
	Issue(ctx context.Context, username string) (string, error)
	// Resolve returns the username bound to token or [ErrSessionNotFound].
	Resolve(ctx context.Context, token string) (string, error)
	// Revoke removes the binding. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}

// NewToken returns [TokenBytes] bytes from crypto/rand, hex encoded.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg shared.SessionsConfig) (Store, error) {
	switch cfg.Driver {
	case shared.SessionsMemory, "":
		return NewMemoryStore(), nil
	case shared.SessionsRedis:
		client, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: unknown sessions driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
