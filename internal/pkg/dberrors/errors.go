package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories care about
const (
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
	CodeInvalidTextEncoding = "22P02"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return IsUniqueViolation(err) && errors.As(err, &pgErr) && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports any unique violation regardless of constraint
func IsUniqueViolation(err error) bool {
	return hasCode(err, CodeUniqueViolation)
}

// IsCheckViolation reports a failed CHECK constraint
func IsCheckViolation(err error) bool {
	return hasCode(err, CodeCheckViolation)
}

// IsInvalidTextRepresentation reports input PostgreSQL could not parse,
// e.g. a malformed uuid literal.
func IsInvalidTextRepresentation(err error) bool {
	return hasCode(err, CodeInvalidTextEncoding)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
