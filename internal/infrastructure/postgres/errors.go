package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

const (
	uniqueViolation  = "23505"
	invalidTextValue = "22P02" // e.g. malformed uuid in a lookup
)

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrConflict
		case invalidTextValue:
			return repository.ErrNotFound
		}
	}
	return err
}

// isUUID reports whether id can match a UUID key. Other ids are answered
// with ErrNotFound without a round trip.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
