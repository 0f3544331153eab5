package core

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrRevocationFailed = errors.New("failed to revoke token")

	ErrInvalidCEP          = errors.New("invalid cep: must contain 8 numeric digits")
	ErrCEPNotFound         = errors.New("cep not found")
	ErrUpstreamTimeout     = errors.New("directory service timed out")
	ErrUpstreamUnavailable = errors.New("directory service unavailable")

	ErrKeyNotFound          = errors.New("key not found")
	ErrStoreOperationFailed = errors.New("store operation failed")
)
