package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxTxKey struct{}

type pgxTxInfo struct {
	tx    pgx.Tx
	owned bool
}

// WithPgxTx stores a pgx transaction in the context.
func WithPgxTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return context.WithValue(ctx, pgxTxKey{}, pgxTxInfo{tx: tx, owned: owned})
}

// PgxTxFromContext extracts the ambient pgx transaction, if any.
func PgxTxFromContext(ctx context.Context) (pgx.Tx, bool) {
	info, ok := ctx.Value(pgxTxKey{}).(pgxTxInfo)
	if !ok || info.tx == nil {
		return nil, false
	}
	return info.tx, true
}

// PostgresUnitOfWork implements application.UnitOfWork over a pgx pool.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPostgresUnitOfWork creates a unit of work bound to the given pool.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Begin starts a transaction, or joins the one already in the context.
func (u *PostgresUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := PgxTxFromContext(ctx); ok {
		return WithPgxTx(ctx, tx, false), nil
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return WithPgxTx(ctx, tx, true), nil
}

// Commit commits the transaction when this scope owns it.
func (u *PostgresUnitOfWork) Commit(ctx context.Context) error {
	info, ok := ctx.Value(pgxTxKey{}).(pgxTxInfo)
	if !ok || info.tx == nil {
		return errors.New("no transaction in context")
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit(ctx)
}

// Rollback rolls back the transaction when this scope owns it.
func (u *PostgresUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := ctx.Value(pgxTxKey{}).(pgxTxInfo)
	if !ok || info.tx == nil {
		return errors.New("no transaction in context")
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback(ctx)
}
