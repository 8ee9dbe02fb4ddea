package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password and inactive account alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)
