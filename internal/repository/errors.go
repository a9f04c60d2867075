package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors exposed to services and handlers. Repositories classify
// driver failures into these so callers can branch with errors.Is without
// knowing postgres SQLSTATE codes.
var (
	// ErrNotFound: a referenced row (product, customer, invoice, ...) does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict: uniqueness or enum-domain constraint violated
	ErrConflict = errors.New("constraint violated")
	// ErrUnavailable: the store cannot be reached; safe to retry the whole transaction
	ErrUnavailable = errors.New("store unavailable")
)

// postgres SQLSTATE classes
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// classify maps a gorm/pgx error onto the sentinel taxonomy. The original
// error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		}
		// connection exception class 08xxx
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%w: %s", ErrUnavailable, pgErr.Message)
		}
	}
	if pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
