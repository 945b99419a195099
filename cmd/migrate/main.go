package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/crudusers/user-admin/internal/infrastructure/config"
	"github.com/crudusers/user-admin/internal/infrastructure/db/mysql"
	"github.com/crudusers/user-admin/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "migrate", Env: cfg.Env})

	if cfg.StoreDriver != config.StoreMySQL {
		log.Error().Str("driver", cfg.StoreDriver).Msg("migrations only apply to the mysql store")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	runner, err := mysql.NewMigrator(db, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to configure migration runner")
		os.Exit(1)
	}

	switch *command {
	case "up":
		err = runner.Up(ctx)
	case "status":
		err = runner.Status(ctx)
	case "down":
		err = runner.Down(ctx, *target)
	default:
		log.Error().Str("command", *command).Msg("unsupported command")
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("migration command failed")
		os.Exit(1)
	}

	log.Info().Str("command", *command).Msg("migration command completed")
}
