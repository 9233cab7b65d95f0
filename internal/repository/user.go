package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// UserRepository represents behavior of user repository
type UserRepository interface {
	Create(context.Context, *model.User) error
	FindByEmail(context.Context, string) (*model.User, error)
	FindByID(context.Context, string) (*model.User, error)
	FindAll(context.Context) ([]*model.User, error)
}

const userColumns = "id, email, full_name, role, phone_number, avatar, created_by, created_at, password_hash"

type sqlUserRepository struct {
	driver   string
	executor transactor.SQLWithinTransactionExecutor
}

// NewSQLUserRepository builds user repository
func NewSQLUserRepository(driver string, e transactor.SQLWithinTransactionExecutor) UserRepository {
	return &sqlUserRepository{driver: driver, executor: e}
}

func (r *sqlUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := rebind(r.driver, "SELECT "+userColumns+" FROM users WHERE email = ?")
	row := r.executor.Executor(ctx).QueryRowContext(ctx, q, email)
	return r.scanRow(row)
}

func (r *sqlUserRepository) Create(ctx context.Context, u *model.User) error {
	q := rebind(r.driver, "INSERT INTO users("+userColumns+") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)")
	_, err := r.executor.Executor(ctx).ExecContext(
		ctx,
		q,
		u.ID,
		u.Email,
		u.FullName,
		u.Role,
		u.PhoneNumber,
		u.Avatar,
		u.CreatedBy,
		formatInstant(u.CreatedAt),
		u.PasswordHash,
	)
	if err != nil {
		return err
	}
	return nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := rebind(r.driver, "SELECT "+userColumns+" FROM users WHERE id = ?")
	row := r.executor.Executor(ctx).QueryRowContext(ctx, q, id)
	return r.scanRow(row)
}

func (r *sqlUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	q := "SELECT " + userColumns + " FROM users ORDER BY created_at, email"

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqlUserRepository) scanRow(row *sql.Row) (*model.User, error) {
	u, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *sqlUserRepository) scan(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		createdAt string
	)

	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PhoneNumber, &u.Avatar, &u.CreatedBy, &createdAt, &u.PasswordHash)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
