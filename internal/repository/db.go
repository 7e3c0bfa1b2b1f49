package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
)

// DBTX is the part of *sql.DB and *sql.Tx the repositories need, so the same
// repository code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories groups the repositories bound to one DBTX.
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
	Discounts  DiscountRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Discounts:  NewDiscountRepository(db),
	}
}

// TxRunner runs a unit of work inside a single transaction.
type TxRunner interface {
	// Run begins a transaction, hands fn repositories bound to it and commits
	// when fn returns nil. Any error rolls the transaction back. A
	// serialization failure, from a statement or from the commit, is reported
	// as ErrConcurrentUpdate.
	Run(ctx context.Context, opts *sql.TxOptions, fn func(repos Repositories) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner over db.
func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) Run(ctx context.Context, opts *sql.TxOptions, fn func(repos Repositories) error) error {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewRepositories(tx)); err != nil {
		if isSerializationFailure(err) {
			return ErrConcurrentUpdate
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

func isSerializationFailure(err error) bool {
	return pgErrorCode(err) == pgSerializationFailure
}
