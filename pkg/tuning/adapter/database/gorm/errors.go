package gorm

import (
	"context"
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

// ErrorClass is the store-level category of a driver error.
type ErrorClass int

const (
	// ClassOther is any error not specifically recognised.
	ClassOther ErrorClass = iota
	// ClassUniqueViolation is a UNIQUE or PRIMARY KEY violation.
	ClassUniqueViolation
	// ClassForeignKeyViolation is a FOREIGN KEY violation, on insert/update or on delete.
	ClassForeignKeyViolation
	// ClassUnavailable is a connection-level failure.
	ClassUnavailable
	// ClassTransient is a lock conflict the engine resolved by aborting the
	// statement: SQLite busy/locked, a deadlock, a lock wait timeout or a
	// serialization failure. The whole operation may succeed when retried.
	ClassTransient
)

const (
	mysqlDuplicateEntry       = 1062
	mysqlRowIsReferenced      = 1451
	mysqlNoReferencedRow      = 1452
	mysqlRowIsReferencedV2    = 3730
	mysqlLockWaitTimeout      = 1205
	mysqlDeadlock             = 1213
	postgresUniqueViolation   = "23505"
	postgresForeignKeyViolate = "23503"
	postgresConnectionClass   = "08"
	postgresSerialization     = "40001"
	postgresDeadlock          = "40P01"
)

// ClassifyError maps SQLite, MySQL and PostgreSQL driver errors to an ErrorClass.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ClassOther
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ClassUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return ClassForeignKeyViolation
		}
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen:
			return ClassUnavailable
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return ClassTransient
		}
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return ClassUniqueViolation
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferencedV2:
			return ClassForeignKeyViolation
		case mysqlDeadlock, mysqlLockWaitTimeout:
			return ClassTransient
		}
	}
	if errors.Is(err, mysqldriver.ErrInvalidConn) {
		return ClassUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == postgresUniqueViolation:
			return ClassUniqueViolation
		case pgErr.Code == postgresForeignKeyViolate:
			return ClassForeignKeyViolation
		case pgErr.Code == postgresDeadlock, pgErr.Code == postgresSerialization:
			return ClassTransient
		case strings.HasPrefix(pgErr.Code, postgresConnectionClass):
			return ClassUnavailable
		}
	}
	var pgConnErr *pgconn.ConnectError
	if errors.As(err, &pgConnErr) {
		return ClassUnavailable
	}

	// Drivers wrapped by other layers sometimes only keep the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ClassUniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ClassForeignKeyViolation
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return ClassTransient
	}

	if exception.IsConnectivityError(err) {
		return ClassUnavailable
	}
	return ClassOther
}

// TranslateError converts a driver error into the store error taxonomy.
// Errors that already are StoreErrors and context errors pass through unchanged.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *exception.StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch ClassifyError(err) {
	case ClassUniqueViolation:
		return exception.NewConstraintViolation(op, "", "duplicate natural key", err)
	case ClassForeignKeyViolation:
		return exception.NewConstraintViolation(op, "", "foreign key constraint failed", err)
	case ClassUnavailable:
		return exception.NewStorageUnavailable(op, "storage engine is unreachable", err)
	case ClassTransient:
		return exception.NewStorageUnavailable(op, "storage engine aborted the operation on a lock conflict", err)
	default:
		return exception.NewStorageError(op, "storage operation failed", err)
	}
}
