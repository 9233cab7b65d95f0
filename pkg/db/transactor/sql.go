package transactor

import (
	"context"
	"database/sql"
)

type sqlTxKey struct{}

func withSQLTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, sqlTxKey{}, tx)
}

func sqlTxValue(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// SQLTransactor runs functions inside database/sql transaction
type SQLTransactor interface {
	Transactor
	WithinTransactionWithOptions(context.Context, func(context.Context) error, *sql.TxOptions) error
}

type sqlTransactor struct {
	db *sql.DB
}

// NewSQLTransactor builds transactor on top of db
func NewSQLTransactor(db *sql.DB) SQLTransactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	return t.WithinTransactionWithOptions(ctx, txFunc, nil)
}

func (t *sqlTransactor) WithinTransactionWithOptions(ctx context.Context, txFunc func(context.Context) error, opts *sql.TxOptions) (err error) {
	// nested call joins the outer transaction
	if sqlTxValue(ctx) != nil {
		return txFunc(ctx)
	}

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		var txErr error
		if err != nil {
			txErr = tx.Rollback()
		} else {
			txErr = tx.Commit()
		}

		if txErr != nil && err == nil {
			err = txErr
		}
	}()

	err = txFunc(withSQLTx(ctx, tx))
	return err
}

// SQLQueryExecutor is common part of *sql.DB and *sql.Tx
type SQLQueryExecutor interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// SQLWithinTransactionExecutor returns transaction stored in context or db itself
type SQLWithinTransactionExecutor interface {
	Executor(ctx context.Context) SQLQueryExecutor
}

type sqlWithinTransactionExecutor struct {
	db *sql.DB
}

// NewSQLWithinTransactionExecutor builds executor on top of db
func NewSQLWithinTransactionExecutor(db *sql.DB) SQLWithinTransactionExecutor {
	return &sqlWithinTransactionExecutor{db: db}
}

func (e *sqlWithinTransactionExecutor) Executor(ctx context.Context) SQLQueryExecutor {
	tx := sqlTxValue(ctx)
	if tx != nil {
		return tx
	}
	return e.db
}
