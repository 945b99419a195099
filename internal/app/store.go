// Package app wires configuration into the concrete user store, session
// registry and services shared by the binaries under cmd/.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/ports"
	"github.com/crudusers/user-admin/internal/infrastructure/config"
	mongodb "github.com/crudusers/user-admin/internal/infrastructure/db/mongo"
	"github.com/crudusers/user-admin/internal/infrastructure/db/mysql"
)

// Store is the user store selected by STORE_DRIVER.
type Store struct {
	Users ports.UserRepository
	// Name is the readiness check key ("mysql" or "mongo").
	Name  string
	Check func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects to the configured user store. For MySQL pending
// migrations are applied first; for MongoDB the unique indexes are ensured.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		return openMySQL(ctx, cfg, log)
	case config.StoreMongo:
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openMySQL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	db, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN})
	if err != nil {
		return nil, err
	}

	migrator, err := mysql.NewMigrator(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrator.Up(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("driver", config.StoreMySQL).Msg("user store ready")
	return &Store{
		Users: mysql.NewUserRepository(db),
		Name:  config.StoreMySQL,
		Check: db.PingContext,
		close: func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	log.Info().Str("driver", config.StoreMongo).Str("database", cfg.Mongo.Database).Msg("user store ready")
	return &Store{
		Users: repo,
		Name:  config.StoreMongo,
		Check: func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
		close: client.Disconnect,
	}, nil
}
