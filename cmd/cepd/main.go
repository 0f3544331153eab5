package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/cadastra/cepd/adapters/events"
	"github.com/cadastra/cepd/adapters/store"
	"github.com/cadastra/cepd/adapters/tokenizer"
	"github.com/cadastra/cepd/adapters/users"
	"github.com/cadastra/cepd/adapters/viacep"
	"github.com/cadastra/cepd/internal/config"
	"github.com/cadastra/cepd/internal/logger"
	"github.com/cadastra/cepd/service"
	transport "github.com/cadastra/cepd/transport/http"
)

func main() {
	log := logger.New("cepd")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse Redis URL")
	}

	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Str("url", cfg.RedisURL).Msg("failed to connect to Redis")
	}

	// The publisher shares the connection the store uses.
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	kv := store.NewRedis(redisClient)

	authService := service.NewAuthService(
		tokenizer.NewHS256([]byte(cfg.JWTSecret), cfg.JWTExpiresIn),
		users.NewMemory(cfg.AdminPasswordHash),
		kv,
		events.NewWatermillPublisher(publisher),
		cfg.JWTExpiresIn,
		log,
	)

	cepService := service.NewCEPService(
		kv,
		viacep.New(cfg.ViaCEPBaseURL, cfg.ViaCEPTimeout),
		cfg.CacheTTL,
		log,
	)

	handlers := transport.NewHandlers(authService, cepService, log)
	router := transport.SetupRouter(handlers, authService)

	log.Info().Int("port", cfg.Port).Msg("starting server")
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
