package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/service"
)

// Handlers contains the HTTP handlers for the gateway endpoints
type Handlers struct {
	auth *service.AuthService
	cep  *service.CEPService
	log  zerolog.Logger
}

// NewHandlers creates the handler set
func NewHandlers(auth *service.AuthService, cep *service.CEPService, log zerolog.Logger) *Handlers {
	return &Handlers{auth: auth, cep: cep, log: log}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// LookupRequest is the postal-code lookup request body
type LookupRequest struct {
	CEP string `json:"cep" binding:"required,min=8,max=10"`
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	token, expiresIn, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, core.ErrInvalidCredentials) {
			h.log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		}
		respondError(c, http.StatusUnauthorized, CodeLoginFailed, "invalid username or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
		"data": gin.H{
			"token":     token,
			"expiresIn": expiresIn,
		},
		"timestamp": timestamp(),
	})
}

// Logout handles POST /api/v1/auth/logout. The route carries no auth
// middleware: revocation itself proves the token, and a missing header is a
// 400 rather than a 401 here.
func (h *Handlers) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		respondError(c, http.StatusBadRequest, CodeTokenRequired, "authentication token not provided")
		return
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		respondError(c, http.StatusBadRequest, CodeTokenRequired, "malformed authorization header, use: Bearer <token>")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), parts[1]); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
		respondError(c, http.StatusInternalServerError, CodeLogoutFailed, "failed to revoke token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "logout successful",
		"timestamp": timestamp(),
	})
}

// Lookup handles POST /api/v1/cep
func (h *Handlers) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.cep.Lookup(c.Request.Context(), req.CEP)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	body := gin.H{
		"success":   true,
		"data":      result.Address,
		"source":    result.Source,
		"cached":    result.Cached,
		"timestamp": timestamp(),
	}
	if result.CacheExpiresIn > 0 {
		body["cacheExpiresIn"] = result.CacheExpiresIn.Round(time.Second).String()
	}

	c.JSON(http.StatusOK, body)
}

func (h *Handlers) respondLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidCEP):
		respondError(c, http.StatusBadRequest, CodeInvalidCEP, "cep must contain 8 numeric digits")
	case errors.Is(err, core.ErrCEPNotFound):
		respondError(c, http.StatusNotFound, CodeCEPNotFound, "cep not found in the directory")
	case errors.Is(err, core.ErrUpstreamTimeout), errors.Is(err, core.ErrUpstreamUnavailable):
		respondError(c, http.StatusServiceUnavailable, CodeServiceUnavailable, "directory service is temporarily unavailable, try again")
	default:
		h.log.Error().Err(err).Msg("lookup failed")
		respondError(c, http.StatusInternalServerError, CodeInternalError, "failed to look up cep")
	}
}

// CEPHealth handles GET /api/v1/cep/health
func (h *Handlers) CEPHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "CEP API",
		"timestamp": timestamp(),
		"endpoints": gin.H{
			"login":  "POST /api/v1/auth/login",
			"logout": "POST /api/v1/auth/logout",
			"lookup": "POST /api/v1/cep (requires authentication)",
		},
	})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": timestamp(),
	})
}
