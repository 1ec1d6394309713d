package gorm_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want gormadapter.ErrorClass
	}{
		{"nil", nil, gormadapter.ClassOther},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, gormadapter.ClassUniqueViolation},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, gormadapter.ClassForeignKeyViolation},
		{"mysql duplicate", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, gormadapter.ClassUniqueViolation},
		{"mysql parent row", &mysqldriver.MySQLError{Number: 1451}, gormadapter.ClassForeignKeyViolation},
		{"mysql child row", &mysqldriver.MySQLError{Number: 1452}, gormadapter.ClassForeignKeyViolation},
		{"mysql invalid conn", fmt.Errorf("exec: %w", mysqldriver.ErrInvalidConn), gormadapter.ClassUnavailable},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, gormadapter.ClassUniqueViolation},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, gormadapter.ClassForeignKeyViolation},
		{"postgres connection failure", &pgconn.PgError{Code: "08006"}, gormadapter.ClassUnavailable},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), gormadapter.ClassUnavailable},
		{"message only", errors.New("UNIQUE constraint failed: flow_definition.flow_def_id"), gormadapter.ClassUniqueViolation},
		{"connection refused", errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"), gormadapter.ClassUnavailable},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, gormadapter.ClassTransient},
		{"sqlite locked", sqlite3.Error{Code: sqlite3.ErrLocked}, gormadapter.ClassTransient},
		{"sqlite locked message", errors.New("database is locked"), gormadapter.ClassTransient},
		{"mysql deadlock", &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}, gormadapter.ClassTransient},
		{"mysql lock wait timeout", &mysqldriver.MySQLError{Number: 1205}, gormadapter.ClassTransient},
		{"postgres deadlock", &pgconn.PgError{Code: "40P01"}, gormadapter.ClassTransient},
		{"postgres serialization failure", &pgconn.PgError{Code: "40001"}, gormadapter.ClassTransient},
		{"syntax", errors.New("near \"SELEC\": syntax error"), gormadapter.ClassOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gormadapter.ClassifyError(tc.err))
		})
	}
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, gormadapter.TranslateError("op", nil))

	err := gormadapter.TranslateError("op", &mysqldriver.MySQLError{Number: 1062})
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)

	err = gormadapter.TranslateError("op", driver.ErrBadConn)
	assert.ErrorIs(t, err, exception.ErrStorageUnavailable)
	assert.True(t, exception.IsRetryable(err))

	err = gormadapter.TranslateError("op", &mysqldriver.MySQLError{Number: 1213})
	assert.ErrorIs(t, err, exception.ErrStorageUnavailable)
	assert.True(t, exception.IsRetryable(err), "deadlock victims may be retried")

	err = gormadapter.TranslateError("op", sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.True(t, exception.IsRetryable(err))

	notFound := exception.NewNotFound("inner", "missing")
	assert.Same(t, notFound, gormadapter.TranslateError("op", notFound))

	assert.ErrorIs(t, gormadapter.TranslateError("op", context.Canceled), context.Canceled)

	plain := errors.New("near \"SELEC\": syntax error")
	err = gormadapter.TranslateError("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, exception.IsRetryable(err))
	assert.Equal(t, "error", exception.KindName(err))
}
