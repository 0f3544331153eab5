package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/service"
)

// AuthMiddleware validates the bearer token on protected routes: header
// shape first, then the revocation blacklist, then signature and expiry.
// The decoded identity lands in the gin context for downstream handlers.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "authentication token not provided")
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, CodeInvalidTokenFormat, "malformed authorization header, use: Bearer <token>")
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, core.ErrTokenRevoked) {
				respondError(c, http.StatusUnauthorized, CodeTokenRevoked, "token has been revoked, log in again")
				return
			}
			respondError(c, http.StatusUnauthorized, CodeInvalidToken, "invalid or expired token")
			return
		}

		c.Set("userId", identity.UserID)
		c.Set("username", identity.Username)

		c.Next()
	}
}
