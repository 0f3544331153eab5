package ports

import "github.com/cadastra/cepd/core"

// Tokenizer issues and verifies signed identity tokens.
type Tokenizer interface {
	// Issue signs a new token for the given user.
	Issue(userID, username string) (string, error)

	// Verify checks the signature and expiry of token and decodes it.
	// Returns core.ErrTokenExpired for a well-signed but expired token and
	// core.ErrInvalidToken for anything else that fails.
	Verify(token string) (*core.Identity, error)
}
