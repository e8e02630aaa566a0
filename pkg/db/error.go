package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes raised by postgres for integrity constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// IsDuplicateKeyErr reports a unique or primary key violation on any supported dialect.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if hasPGCode(err, pgUniqueViolation) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyErr reports a foreign key violation on any supported dialect.
func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if hasPGCode(err, pgForeignKeyViolation) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "Error 1452") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// IsCheckErr reports a CHECK or NOT NULL constraint violation.
func IsCheckErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	if hasPGCode(err, pgCheckViolation) || hasPGCode(err, pgNotNullViolation) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Error 3819") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "NOT NULL constraint failed")
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
