package ports

import (
	"context"

	"github.com/cadastra/cepd/core"
)

// UserFinder looks up credential records by username.
type UserFinder interface {
	// FindByUsername returns the user record or core.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*core.User, error)
}
