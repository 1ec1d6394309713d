package gorm_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/config"
	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	"github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

type widget struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name"`
	Active bool   `gorm:"column:active"`
}

func (widget) TableName() string { return "widget" }

// setupMySQLMock opens a GORM MySQL session on a sqlmock connection.
func setupMySQLMock(t *testing.T) (*gormadapter.GormDBAdapter, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	conn := gormadapter.NewGormDBAdapter(gormDB, dbconfig.DatabaseConfig{Type: "mysql"}, "mock_db")
	t.Cleanup(func() {
		mock.ExpectClose()
		_ = conn.Close()
	})
	return conn, mock
}

func TestGormDBAdapter_UpdateWritesZeroValues(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectExec("UPDATE `widget` SET .*`active`=\\?.*WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := &widget{ID: 7, Name: "w", Active: false}
	rows, err := conn.ExecuteUpdate(context.Background(), w, "UPDATE", "widget", nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDBAdapter_CreateAssignsID(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectExec("INSERT INTO `widget`").
		WillReturnResult(sqlmock.NewResult(42, 1))

	w := &widget{Name: "w", Active: true}
	rows, err := conn.ExecuteUpdate(context.Background(), w, "CREATE", "widget", nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, int64(42), w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDBAdapter_DeleteWithCondition(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectExec("DELETE FROM `widget` WHERE .*`name` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := conn.ExecuteUpdate(context.Background(), &widget{ID: 7}, "DELETE", "widget", map[string]interface{}{"name": "w"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestGormDBAdapter_UnsupportedOperation(t *testing.T) {
	conn, _ := setupMySQLMock(t)

	_, err := conn.ExecuteUpdate(context.Background(), &widget{}, "MERGE", "widget", nil)
	assert.EqualError(t, err, "unsupported update operation: MERGE")
}

func TestGormDBAdapter_LockedReadAddsLockingClause(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectQuery("SELECT \\* FROM `widget` WHERE `widget`.`id` = \\? FOR SHARE$").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(3, "w", true))

	var found []widget
	err := conn.ExecuteQueryLocked(context.Background(), &found, map[string]interface{}{"id": int64(3)}, tx.LockShare)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "w", found[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDBAdapter_QueryAdvancedOrdersAndLimits(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectQuery("SELECT \\* FROM `widget` WHERE `widget`.`active` = \\? ORDER BY id DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(9, "last", true))

	var found []widget
	err := conn.ExecuteQueryAdvanced(context.Background(), &found, map[string]interface{}{"active": true}, "id DESC", 1)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(9), found[0].ID)
}

func TestGormDBAdapter_Count(t *testing.T) {
	conn, mock := setupMySQLMock(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `widget`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(5))

	n, err := conn.Count(context.Background(), &widget{}, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestGormDBAdapter_IsTableNotExistError(t *testing.T) {
	conn, _ := setupMySQLMock(t)

	assert.False(t, conn.IsTableNotExistError(assert.AnError))
	assert.True(t, conn.IsTableNotExistError(errString("no such table: flow_definition")))
	assert.True(t, conn.IsTableNotExistError(errString("Error 1146 (42S02): Table 'x.flow_definition' doesn't exist")))
	assert.True(t, conn.IsTableNotExistError(errString(`ERROR: relation "flow_definition" does not exist`)))
}

type errString string

func (e errString) Error() string { return string(e) }
