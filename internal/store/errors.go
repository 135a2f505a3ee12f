package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert would violate a unique
// constraint. Uniqueness is enforced by the database, so concurrent
// duplicate inserts surface here rather than crashing the handler.
var ErrConflict = errors.New("already exists")

const uniqueViolationCode = "23505"

func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return ErrConflict
	}
	return err
}
