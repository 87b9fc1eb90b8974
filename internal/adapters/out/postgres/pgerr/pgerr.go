// Package pgerr classifies PostgreSQL failures into the error taxonomy of
// internal/pkg/errs.
package pgerr

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to.
const (
	UniqueViolation      = "23505"
	ForeignKeyViolation  = "23503"
	CheckViolation       = "23514"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
)

// Code returns the SQLSTATE of err, or "" when err is not a server error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Classify wraps err as a persistence error of op. Conflicts between
// concurrent transactions also match errs.ErrConcurrentModification, and
// constraint violations caused by bad input match errs.ErrValueIsInvalid.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errs.NewPersistenceError(op, err)
	}

	switch pgErr.Code {
	case SerializationFailure, DeadlockDetected, UniqueViolation:
		return errs.NewPersistenceError(op,
			fmt.Errorf("%w: %s", errs.ErrConcurrentModification, pgErr.Message))
	case ForeignKeyViolation, CheckViolation:
		return errs.NewValueIsInvalidErrorWithCause(pgErr.ConstraintName, err)
	default:
		return errs.NewPersistenceError(op, err)
	}
}
