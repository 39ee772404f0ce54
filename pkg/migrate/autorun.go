package migrate

import (
	"context"
	"fmt"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/db"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at API startup. It only ever runs
// in the dev environment with ROWDYSDEN_AUTO_MIGRATE set; other environments
// migrate through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !autoRunEnabled(cfg) {
		return nil
	}
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "migrations_dir", DefaultDir)
	logg.Info(ctx, "migrate.autorun_start")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("dev auto-migrate: %w", err)
	}
	logg.Info(ctx, "migrate.autorun_done")
	return nil
}

func autoRunEnabled(cfg *config.Config) bool {
	return cfg != nil && cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}
