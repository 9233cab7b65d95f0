package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// RefreshTokenRepository represents behavior of refresh token repository
type RefreshTokenRepository interface {
	Create(context.Context, *model.RefreshToken) error
	FindTokensByUserID(context.Context, string) ([]*model.RefreshToken, error)
	DeleteByUserID(context.Context, string) error
	DeleteByID(context.Context, string) error
	FindByID(context.Context, string) (*model.RefreshToken, error)
}

type sqlRefreshTokenRepository struct {
	driver   string
	executor transactor.SQLWithinTransactionExecutor
}

// NewSQLRefreshTokenRepository builds refresh token repository
func NewSQLRefreshTokenRepository(driver string, e transactor.SQLWithinTransactionExecutor) RefreshTokenRepository {
	return &sqlRefreshTokenRepository{driver: driver, executor: e}
}

func (r *sqlRefreshTokenRepository) Create(ctx context.Context, tkn *model.RefreshToken) error {
	q := rebind(r.driver, "INSERT INTO refresh_tokens(id, user_id, fingerprint, expires_in, created_at) VALUES(?, ?, ?, ?, ?)")
	_, err := r.executor.Executor(ctx).ExecContext(ctx, q, tkn.ID, tkn.UserID, tkn.Fingerprint, tkn.ExpiresIn, formatInstant(tkn.CreatedAt))
	if err != nil {
		return err
	}
	return nil
}

func (r *sqlRefreshTokenRepository) FindTokensByUserID(ctx context.Context, userID string) ([]*model.RefreshToken, error) {
	q := rebind(r.driver, "SELECT id, user_id, fingerprint, expires_in, created_at FROM refresh_tokens WHERE user_id = ?")

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]*model.RefreshToken, 0)
	for rows.Next() {
		tkn, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tkn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *sqlRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	q := rebind(r.driver, "DELETE FROM refresh_tokens WHERE user_id = ?")
	if _, err := r.executor.Executor(ctx).ExecContext(ctx, q, userID); err != nil {
		return err
	}
	return nil
}

func (r *sqlRefreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	q := rebind(r.driver, "DELETE FROM refresh_tokens WHERE id = ?")
	if _, err := r.executor.Executor(ctx).ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *sqlRefreshTokenRepository) FindByID(ctx context.Context, id string) (*model.RefreshToken, error) {
	q := rebind(r.driver, "SELECT id, user_id, fingerprint, expires_in, created_at FROM refresh_tokens WHERE id = ?")

	tkn, err := r.scan(r.executor.Executor(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tkn, nil
}

func (r *sqlRefreshTokenRepository) scan(row rowScanner) (*model.RefreshToken, error) {
	var (
		tkn       model.RefreshToken
		createdAt string
	)

	if err := row.Scan(&tkn.ID, &tkn.UserID, &tkn.Fingerprint, &tkn.ExpiresIn, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if tkn.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &tkn, nil
}
