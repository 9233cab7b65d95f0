package infra

import (
	"context"
	"database/sql"
	"fmt"

	// postgres driver registered as "pgx"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// Postgresql opens postgres database through pgx database/sql driver
func Postgresql(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to establish connection to db - %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("didn't get response from database after sending ping request - %w", err)
	}
	return db, nil
}
