package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/domain/user"
	"github.com/inventrackpro/inventrack/internal/http/middlewares"
	"github.com/inventrackpro/inventrack/internal/observability"
	"github.com/inventrackpro/inventrack/internal/security"
	"github.com/inventrackpro/inventrack/internal/session"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, passwordDigest string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   session.Store
	cfg        config.Config
	prom       *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions session.Store, cfg config.Config, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		cfg:        cfg,
		prom:       prom,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	digest, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Username, digest)

	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			// duplicates are reported as 400 for client compatibility
			RespondBadRequest(ctx, "Username already exists", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	err = h.establishSession(ctx, cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for the DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same response whether the username exists or not
			h.countLogin("rejected")
			RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	if !security.VerifyPassword(req.Password, foundUser.PasswordDigest) {
		h.countLogin("rejected")
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = h.establishSession(ctx, cctx, foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.countLogin("ok")

	ctx.JSON(http.StatusOK, foundUser)
}

// Logout invalidates the current session; calling it without one is fine.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, err := ctx.Cookie(session.CookieName)

	if err == nil && token != "" {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		_ = h.sessions.Delete(cctx, token)
	}

	h.clearSessionCookie(ctx)

	ctx.Status(http.StatusOK)
}

// CurrentUser runs behind RequireAuth, so the user is already resolved.
func (h *AuthHandler) CurrentUser(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// Helper functions

func (h *AuthHandler) establishSession(ctx *gin.Context, cctx context.Context, userID int64) error {
	token := session.NewToken()

	err := h.sessions.Put(cctx, token, userID, h.cfg.SessionTTL)

	if err != nil {
		return err
	}

	h.setSessionCookie(ctx, token)

	return nil
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	maxAge := int(h.cfg.SessionTTL.Seconds())

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		session.CookieName,
		token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		session.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(result).Inc()
	}
}
