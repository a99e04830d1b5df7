package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes translated by the repositories.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Name of the CHECK constraint that keeps balances non-negative.
const balanceCheckConstraint = "accounts_balance_non_negative"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// translateWriteError maps constraint violations to domain sentinels and wraps
// everything else with what.
func translateWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
		case pgErr.Code == pgCheckViolation && pgErr.ConstraintName == balanceCheckConstraint:
			return fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, what)
		}
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}
