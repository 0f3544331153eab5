package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AuthClaims combines standard claims with the identity payload carried by
// every issued token.
type AuthClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
