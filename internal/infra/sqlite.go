package infra

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// sqlite driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

// InMemorySQLite is path of private in-memory sqlite database
const InMemorySQLite = ":memory:"

// SQLite opens (or creates) sqlite database at path with WAL journal and foreign keys enabled
func SQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path != InMemorySQLite {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for sqlite database - %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database - %w", err)
	}

	// every connection to :memory: gets its own database
	if path == InMemorySQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("didn't get response from sqlite after sending ping request - %w", err)
	}
	return db, nil
}
