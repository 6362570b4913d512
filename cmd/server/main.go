// @title           Weather Auth API
// @version         1.0
// @description     User registration, login, JWT authentication and subscription management.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gabchak/weather-auth/internal/api"
	"github.com/gabchak/weather-auth/internal/core/ports"
	"github.com/gabchak/weather-auth/internal/core/service"
	"github.com/gabchak/weather-auth/internal/infrastructure/db/mongo"
	"github.com/gabchak/weather-auth/internal/infrastructure/db/postgres"
	redisdb "github.com/gabchak/weather-auth/internal/infrastructure/db/redis"
	"github.com/gabchak/weather-auth/internal/infrastructure/http/handlers"
	"github.com/gabchak/weather-auth/internal/infrastructure/security"
	"github.com/gabchak/weather-auth/internal/pkg/config"
	"github.com/gabchak/weather-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "weather-auth",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, probes, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open credential store")
	}
	defer closeStore()

	var denylist ports.TokenDenylist
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		denylist = redisdb.NewTokenDenylist(rdb)
		probes = append(probes, handlers.Check{Name: "redis", Ping: redisPing(rdb)})
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}

	users := service.NewUserDirectory(store, security.NewBcryptHasher(cfg.BcryptCost), log)
	e := api.NewRouter(api.Dependencies{
		Auth:               service.NewAuthService(users, tokens, denylist, log),
		Users:              users,
		Subscriptions:      service.NewSubscriptionService(store, log),
		Authenticator:      service.NewAuthenticator(tokens, denylist, log),
		Probes:             probes,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("graceful shutdown completed")
}

// openStore connects the configured credential store and returns its
// readiness probe and a close function.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, []handlers.Check, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := postgres.Migrate(cfg.Postgres.URL); err != nil {
			return nil, nil, nil, err
		}
		pool, err := postgres.Connect(ctx, postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxConns:        cfg.Postgres.MaxConns,
			ConnectAttempts: cfg.Postgres.ConnectAttempts,
		}, log)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := postgres.NewUserRepository(pool)
		return repo, []handlers.Check{{Name: "postgres", Ping: repo.Ping}}, pool.Close, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}
		return repo, []handlers.Check{{Name: "mongodb", Ping: repo.Ping}}, closeFn, nil
	}
}

func redisPing(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
