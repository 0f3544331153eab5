package core

import "time"

// Identity is the decoded payload of an issued token.
type Identity struct {
	UserID    string    // Subject of the token
	Username  string    // Display name of the authenticated user
	TokenID   string    // Unique identifier (jti) of the token
	IssuedAt  time.Time // When the token was signed
	ExpiresAt time.Time // When the token stops being valid
}

// User is a credential record looked up at login.
type User struct {
	Username     string
	PasswordHash string // bcrypt hash
}

// BlacklistKey returns the store key under which a revoked token is held.
// Keyed by the token itself so the middleware can check it without decoding.
func BlacklistKey(token string) string { return "token:blacklist:" + token }
