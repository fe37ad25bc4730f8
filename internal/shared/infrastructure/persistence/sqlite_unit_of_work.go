// Package persistence carries transactions through context so repositories
// can join an ambient unit of work without knowing who opened it.
package persistence

import (
	"context"
	"database/sql"
	"errors"
)

type sqliteTxKey struct{}

type sqliteTxInfo struct {
	tx    *sql.Tx
	owned bool
}

// WithSQLiteTx stores a transaction in the context. owned marks the scope
// that is responsible for commit/rollback; nested Begin calls join instead.
func WithSQLiteTx(ctx context.Context, tx *sql.Tx, owned bool) context.Context {
	return context.WithValue(ctx, sqliteTxKey{}, sqliteTxInfo{tx: tx, owned: owned})
}

// SQLiteTxFromContext extracts the ambient transaction, if any.
func SQLiteTxFromContext(ctx context.Context) (*sql.Tx, bool) {
	info, ok := ctx.Value(sqliteTxKey{}).(sqliteTxInfo)
	if !ok || info.tx == nil {
		return nil, false
	}
	return info.tx, true
}

// SQLiteUnitOfWork implements application.UnitOfWork over database/sql.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

// NewSQLiteUnitOfWork creates a unit of work bound to the given database.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// Begin starts a transaction, or joins the one already in the context.
func (u *SQLiteUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := SQLiteTxFromContext(ctx); ok {
		return WithSQLiteTx(ctx, tx, false), nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return WithSQLiteTx(ctx, tx, true), nil
}

// Commit commits the transaction when this scope owns it.
func (u *SQLiteUnitOfWork) Commit(ctx context.Context) error {
	info, ok := ctx.Value(sqliteTxKey{}).(sqliteTxInfo)
	if !ok || info.tx == nil {
		return errors.New("no transaction in context")
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit()
}

// Rollback rolls back the transaction when this scope owns it.
func (u *SQLiteUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := ctx.Value(sqliteTxKey{}).(sqliteTxInfo)
	if !ok || info.tx == nil {
		return errors.New("no transaction in context")
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback()
}
