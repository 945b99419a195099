// @title                       User Admin API
// @version                     1.0
// @description                 User administration: registration, login sessions and role-scoped user management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/crudusers/user-admin/docs"
	"github.com/crudusers/user-admin/internal/api"
	"github.com/crudusers/user-admin/internal/api/handler"
	"github.com/crudusers/user-admin/internal/app"
	"github.com/crudusers/user-admin/internal/infrastructure/config"
	"github.com/crudusers/user-admin/internal/infrastructure/db/redis"
	"github.com/crudusers/user-admin/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "user-admin",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open user store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close user store")
		}
	}()

	redisClient, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	services := app.NewServices(ctx, cfg, store.Users, redis.NewSessionStore(redisClient), logger.Component("service"))

	router := api.NewRouter(api.Dependencies{
		Users:     services.Users,
		Sessions:  services.Sessions,
		JWTSecret: cfg.JWTSecret,
		Checks: map[string]handler.Check{
			store.Name: store.Check,
			"redis":    func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		},
		Log: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server starting")
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		log.Info().Msg("server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}
}
