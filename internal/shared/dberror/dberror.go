// Package dberror recognises store-level error signals across the
// supported drivers.
package dberror

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	pgConstraintMarker   = "violates unique constraint \""
	mysqlConstraintStart = "for key '"
)

// UniqueViolation reports whether err is a unique constraint conflict and,
// when the driver says so, which constraint fired. The constraint is empty
// when the driver does not name it.
func UniqueViolation(err error) (constraint string, ok bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName, true
		}
		return constraintFromMessage(pgErr.Message), true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		return constraintFromMessage(myErr.Message), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintFromMessage(err.Error()), true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "duplicate entry") {
		return constraintFromMessage(err.Error()), true
	}

	return "", false
}

// IsNotFound matches gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func constraintFromMessage(msg string) string {
	if i := strings.Index(msg, pgConstraintMarker); i >= 0 {
		rest := msg[i+len(pgConstraintMarker):]
		if j := strings.IndexByte(rest, '"'); j >= 0 {
			return rest[:j]
		}
	}
	if i := strings.Index(msg, mysqlConstraintStart); i >= 0 {
		rest := msg[i+len(mysqlConstraintStart):]
		if j := strings.IndexByte(rest, '\''); j >= 0 {
			key := rest[:j]
			// MySQL 8 prefixes the table: employees.uq_employee_email
			if k := strings.LastIndexByte(key, '.'); k >= 0 {
				key = key[k+1:]
			}
			return key
		}
	}
	return ""
}
