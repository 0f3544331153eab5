package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-configured boundary of the gateway.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"segredo"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`

	ViaCEPBaseURL string        `env:"VIACEP_BASE_URL" envDefault:"https://viacep.com.br/ws"`
	ViaCEPTimeout time.Duration `env:"VIACEP_TIMEOUT" envDefault:"5s"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Overrides the seeded admin credential; empty keeps the built-in hash.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
