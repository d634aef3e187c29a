package shared

import (
	"context"
	"time"
)

// TokenBlocklist tracks revoked token IDs until their natural expiry.
type TokenBlocklist interface {
	// AddToBlocklist adds a token's JTI (JWT ID) to the blocklist with a given expiration.
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	// IsBlocklisted checks if a token's JTI is in the blocklist.
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}
