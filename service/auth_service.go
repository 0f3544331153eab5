package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/ports"
)

// AuthService handles login, token validation and revocation.
type AuthService struct {
	tokenizer ports.Tokenizer
	users     ports.UserFinder
	store     ports.Store
	events    ports.EventPublisher
	validity  time.Duration
	log       zerolog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	users ports.UserFinder,
	store ports.Store,
	events ports.EventPublisher,
	validity time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		tokenizer: tokenizer,
		users:     users,
		store:     store,
		events:    events,
		validity:  validity,
		log:       log,
	}
}

// Login checks the credentials against the user table and issues a token.
// Unknown usernames and wrong passwords both come back as
// core.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", core.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", core.ErrInvalidCredentials
	}

	token, err := s.tokenizer.Issue(username, user.Username)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, formatValidity(s.validity), nil
}

// Logout revokes a token by writing a blacklist entry whose TTL equals the
// token's remaining validity. A token that cannot be verified cannot be
// revoked; a token already past expiry needs no entry and is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	identity, err := s.tokenizer.Verify(token)
	if err != nil {
		if errors.Is(err, core.ErrTokenExpired) {
			return nil
		}
		return fmt.Errorf("%w: %v", core.ErrRevocationFailed, err)
	}

	ttl := time.Until(identity.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.store.Set(ctx, core.BlacklistKey(token), "1", ttl); err != nil {
		return fmt.Errorf("%w: %v", core.ErrRevocationFailed, err)
	}

	// Best effort: the blacklist entry is what actually revokes the token.
	if err := s.events.PublishLogout(ctx, identity.UserID, identity.TokenID); err != nil {
		s.log.Warn().Err(err).Str("user_id", identity.UserID).Msg("failed to publish logout event")
	}

	return nil
}

// Authenticate validates a bearer token: revocation check first, then
// signature and expiry. On success the decoded identity is returned.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*core.Identity, error) {
	if s.IsRevoked(ctx, token) {
		return nil, core.ErrTokenRevoked
	}

	identity, err := s.tokenizer.Verify(token)
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// IsRevoked checks the blacklist for the token. A store failure is treated
// as "not revoked": availability wins over strictness during store outages.
func (s *AuthService) IsRevoked(ctx context.Context, token string) bool {
	revoked, err := s.store.Exists(ctx, core.BlacklistKey(token))
	if err != nil {
		s.log.Warn().Err(err).Msg("revocation check failed, treating token as not revoked")
		return false
	}
	return revoked
}

// formatValidity renders a duration the way the login response advertises it,
// e.g. "24h" rather than "24h0m0s".
func formatValidity(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
