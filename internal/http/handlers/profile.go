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
	"github.com/inventrackpro/inventrack/internal/security"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	UpdateProfile(ctx context.Context, id int64, req user.ProfileUpdateRequest) (user.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordDigest string) error
}

type ProfileHandler struct {
	users ProfileStore
}

func NewProfileHandler(users ProfileStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) UpdateProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req user.ProfileUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	updated, err := h.users.UpdateProfile(cctx, userID, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *ProfileHandler) UpdatePassword(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req user.PasswordUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		RespondBadRequest(ctx, "Passwords don't match", gin.H{
			"fields": []FieldError{
				{Field: "confirmPassword", Rule: "eqfield", Message: "must match newPassword"},
			},
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not update password")
		return
	}

	if !security.VerifyPassword(req.CurrentPassword, u.PasswordDigest) {
		RespondBadRequest(ctx, "Current password is incorrect", nil)
		return
	}

	digest, err := security.HashPassword(req.NewPassword)

	if err != nil {
		RespondInternal(ctx, "Could not update password")
		return
	}

	err = h.users.UpdatePassword(cctx, userID, digest)

	if err != nil {
		RespondInternal(ctx, "Could not update password")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
