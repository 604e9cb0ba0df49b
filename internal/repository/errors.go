package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUniqueViolation signals a unique-key insert conflict. The record
// materializer relies on it to turn a losing create race into a lookup;
// register and category creation map it to a user-visible conflict.
var ErrUniqueViolation = errors.New("unique constraint violation")

const pgUniqueViolation = "23505"

// translateUnique converts Postgres duplicate-key failures into
// ErrUniqueViolation, leaving every other error as is.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrUniqueViolation
	}
	return err
}
