package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"socially/internal/core"
)

const pgUniqueViolation = "23505"

// Translate maps driver errors onto the engine's taxonomy. A missing row
// becomes NotFound, a lost uniqueness race becomes ConflictRetry, anything
// else is a store failure and stays loud.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return core.ErrConflictRetry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return core.ErrConflictRetry
	}

	return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
}
