package users

import (
	"context"
	"sync"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/ports"
)

// DefaultAdminHash is the bcrypt hash seeded for the fixed admin account
// (password "admin123") when no hash is configured.
const DefaultAdminHash = "$2b$10$mpAd/A0TeuRR/gW6b3AbSOtWFHrKCyk8uRo/BYtPLpvrBoEw34q3W"

// Memory is an in-memory credential table behind the UserFinder port.
// The production wiring seeds it with the single admin account; tests add
// their own records via Add.
type Memory struct {
	mu    sync.RWMutex
	users map[string]core.User
}

// NewMemory creates a credential table seeded with the admin account.
// An empty adminHash falls back to DefaultAdminHash.
func NewMemory(adminHash string) *Memory {
	if adminHash == "" {
		adminHash = DefaultAdminHash
	}
	m := &Memory{users: make(map[string]core.User)}
	m.Add(core.User{Username: "admin", PasswordHash: adminHash})
	return m
}

// NewEmpty creates a credential table with no records.
func NewEmpty() *Memory {
	return &Memory{users: make(map[string]core.User)}
}

// Add inserts or replaces a credential record.
func (m *Memory) Add(user core.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.Username] = user
}

// FindByUsername returns the user record or core.ErrUserNotFound
func (m *Memory) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return &user, nil
}

var _ ports.UserFinder = (*Memory)(nil)
