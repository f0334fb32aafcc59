package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/domain/user"
	"github.com/inventrackpro/inventrack/internal/session"
)

// Keep these interfaces small so tests can fake them easily.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type AuthMiddleware struct {
	sessions session.Store
	users    UserResolver
	ttl      time.Duration
}

func NewAuthMiddleware(sessions session.Store, users UserResolver, ttl time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
	}
}

// RequireAuth resolves the session cookie to a stored user. A missing or
// expired session, or a session pointing at a deleted user, is anonymous.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)

		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		ctx := c.Request.Context()

		userID, ok, err := m.sessions.Get(ctx, token)

		if err != nil || !ok {
			abortUnauthorized(c)
			return
		}

		u, err := m.users.GetByID(ctx, userID)

		if err != nil {
			// the user behind this session is gone; drop the session too
			_ = m.sessions.Delete(ctx, token)

			abortUnauthorized(c)
			return
		}

		// sliding expiry: every authenticated request renews the window
		_ = m.sessions.Touch(ctx, token, m.ttl)

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Set(CtxToken, token)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Authentication required",
		},
	})
}

// Optional helpers so handlers don’t need to know the magic keys.

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func TokenFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxToken)
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok
}
