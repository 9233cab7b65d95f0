package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SQLiteDriver is database/sql driver name of sqlite
	SQLiteDriver = "sqlite"
	// PostgresDriver is database/sql driver name of postgres
	PostgresDriver = "pgx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users(
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens(
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		fingerprint TEXT NOT NULL,
		expires_in INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers(
		id TEXT PRIMARY KEY,
		avatar TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		date_of_birth TEXT NOT NULL DEFAULT '',
		hamlet TEXT NOT NULL DEFAULT '',
		commune TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		province TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		financial_status TEXT NOT NULL DEFAULT '',
		family_info TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		classification TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS insurance_contracts(
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		company TEXT NOT NULL,
		contract_number TEXT NOT NULL UNIQUE,
		policy_details TEXT NOT NULL DEFAULT '',
		join_date TEXT NOT NULL DEFAULT '',
		premium_amount TEXT NOT NULL,
		payment_frequency TEXT NOT NULL,
		next_payment_date TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS meeting_records(
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		meeting_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customer_files(
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		path TEXT NOT NULL,
		PRIMARY KEY(customer_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS learning_contents(
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insurance_contracts_customer ON insurance_contracts(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_meeting_records_customer ON meeting_records(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id)`,
}

// Migrate creates tables which are missing
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema - %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres
func rebind(driver, q string) string {
	if driver != PostgresDriver {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)

	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// instantLayout is fixed width so that stored instants sort as text in chronological order
const instantLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatInstant stores moment in UTC, used for columns which are sorted on
func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(instantLayout)
}

// formatTime keeps offset of t, so calendar dates are read back on the same day
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q - %w", s, err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
