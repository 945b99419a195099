package main

import (
	"context"
	"time"

	"github.com/crudusers/user-admin/internal/app"
	"github.com/crudusers/user-admin/internal/infrastructure/config"
	"github.com/crudusers/user-admin/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "admin-init", Env: cfg.Env})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user store")
	}
	defer store.Close(context.Background())

	created, err := app.SeedSuperAdmin(ctx, store.Users, cfg.Admin, log)
	if err != nil {
		log.Fatal().Err(err).Msg("admin init failed")
	}
	log.Info().Bool("created", created).Msg("admin init completed")
}
