package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/antifraud/antifraud-system/internal/api/handler"
	"github.com/antifraud/antifraud-system/internal/core/ports"
	"github.com/antifraud/antifraud-system/internal/infrastructure/db/memory"
	mongostore "github.com/antifraud/antifraud-system/internal/infrastructure/db/mongo"
	"github.com/antifraud/antifraud-system/internal/infrastructure/db/postgres"
	"github.com/antifraud/antifraud-system/internal/pkg/config"
)

// stores groups the repositories of the selected STORE_DRIVER.
type stores struct {
	accounts  ports.AccountRepository
	blocklist ports.BlocklistRepository
	audit     ports.AuditRepository

	// lock is the store's own registration lock, if it has one.
	lock ports.RegistrationLock

	pingers map[string]handler.Pinger
	closers []func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			accounts:  memory.NewAccountRepository(),
			blocklist: memory.NewBlocklistRepository(),
			audit:     memory.NewAuditRepository(),
			pingers:   map[string]handler.Pinger{},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			accounts:  postgres.NewAccountRepository(db),
			blocklist: postgres.NewBlocklistRepository(db),
			audit:     postgres.NewAuditRepository(db),
			lock:      postgres.NewAdvisoryLock(db, log),
			pingers:   map[string]handler.Pinger{"postgres": db.PingContext},
			closers:   []func(context.Context) error{func(context.Context) error { return db.Close() }},
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return mongoStores(client, db, log), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// mongoStores builds the Mongo-backed repositories. The lease lock keeps the
// bootstrap decision exclusive across replicas even without Redis.
func mongoStores(client *mongo.Client, db *mongo.Database, log zerolog.Logger) *stores {
	return &stores{
		accounts:  mongostore.NewAccountRepository(db),
		blocklist: mongostore.NewBlocklistRepository(db),
		audit:     mongostore.NewAuditRepository(db),
		lock:      mongostore.NewRegistrationLock(db, log),
		pingers: map[string]handler.Pinger{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		},
		closers: []func(context.Context) error{client.Disconnect},
	}
}
