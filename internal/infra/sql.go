package infra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/umalmyha/insurance-crm/internal/config"
	"github.com/umalmyha/insurance-crm/internal/repository"
)

// Database opens database configured by driver and applies schema
func Database(ctx context.Context, cfg config.StorageCfg) (*sql.DB, string, error) {
	var (
		db     *sql.DB
		driver string
		err    error
	)

	switch cfg.Driver {
	case "sqlite":
		driver = repository.SQLiteDriver
		db, err = SQLite(ctx, cfg.DSN)
	case "postgres":
		driver = repository.PostgresDriver
		db, err = Postgresql(ctx, cfg.DSN)
	default:
		return nil, "", fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
	if err != nil {
		return nil, "", err
	}

	if err := repository.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, driver, nil
}
