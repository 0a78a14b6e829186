package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mongostore "github.com/antifraud/antifraud-system/internal/infrastructure/db/mongo"
	"github.com/antifraud/antifraud-system/internal/infrastructure/db/postgres"
	"github.com/antifraud/antifraud-system/internal/pkg/config"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the configured store's schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations (postgres) or ensure indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		switch cfg.StoreDriver {
		case config.DriverPostgres:
			return postgres.Migrate(cfg.Postgres.DSN)

		case config.DriverMongo:
			client, db, err := mongostore.Connect(cmd.Context(), mongostore.Config{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
			})
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(cmd.Context()) }()
			return mongostore.EnsureIndexes(cmd.Context(), db)

		default:
			fmt.Fprintf(cmd.OutOrStdout(), "store driver %q needs no migration\n", cfg.StoreDriver)
			return nil
		}
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations (postgres only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrate down is only supported for %q, got %q", config.DriverPostgres, cfg.StoreDriver)
		}
		return postgres.MigrateDown(cfg.Postgres.DSN)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
