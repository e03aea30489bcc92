package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrValidation is wrapped with a short reason, e.g.
	// fmt.Errorf("%w: invalid file type", common.ErrValidation).
	ErrValidation = errors.New("validation error")

	// Directory errors.
	ErrDuplicateUsername = errors.New("username already taken")
	ErrBadPassword       = errors.New("invalid password")

	// Message store errors.
	ErrNotLoggedIn       = errors.New("you must be logged in")
	ErrRecipientNotFound = errors.New("recipient not found")

	// Token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
