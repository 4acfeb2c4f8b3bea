package auth

import (
	"errors"
	"fmt"
)

// Credential errors returned by the login flow and the guard.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrNoCredential      = errors.New("no credential")
)

// Token errors. Each one wraps ErrTokenInvalid.
var (
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrTokenInvalid)
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrTokenInvalid)
)
