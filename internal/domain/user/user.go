package user

import "errors"

type User struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	PasswordDigest string  `json:"-"` // never expose the digest in JSON
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          *string `json:"email"`
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// all fields optional; only the ones present are written
type ProfileUpdateRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=80"`
	LastName  *string `json:"lastName" binding:"omitempty,max=80"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6"`
}
