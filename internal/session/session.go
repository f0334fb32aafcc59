package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued on login/register.
const CookieName = "inventrack_session"

// Store maps opaque session tokens to user ids. Implementations own expiry:
// Get on an expired token reports absent, Touch extends the sliding window.
type Store interface {
	Put(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, bool, error)
	Delete(ctx context.Context, token string) error
	Touch(ctx context.Context, token string, ttl time.Duration) error
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	return uuid.NewString()
}
