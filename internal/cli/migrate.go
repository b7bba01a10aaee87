package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"cyberaware/internal/catalog"
	"cyberaware/internal/config"
	pgmigrations "cyberaware/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and seeds the games table from
// the embedded catalog.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed game content",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runMigrationsWithConfig(cmd.Context(), cfg)
		},
	}
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}

	if err := seedGames(ctx, db); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}

// seedGames upserts the embedded catalog so a fresh database serves the same
// content, in the same order, as the embedded fallback.
func seedGames(ctx context.Context, db *bun.DB) error {
	games, err := catalog.Embedded()
	if err != nil {
		return err
	}
	for i, game := range games {
		data, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("marshal game %s: %w", game.ID, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO games (id, position, data) VALUES (?, ?, ?::jsonb)
			 ON CONFLICT (id) DO UPDATE SET position = EXCLUDED.position, data = EXCLUDED.data`,
			game.ID, i, string(data),
		)
		if err != nil {
			return fmt.Errorf("seed game %s: %w", game.ID, err)
		}
	}
	return nil
}
