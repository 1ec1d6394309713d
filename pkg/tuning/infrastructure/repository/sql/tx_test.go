package sql_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/config"
	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	"github.com/tigerroll/tunestore/pkg/tuning/core/tx"
	"github.com/tigerroll/tunestore/pkg/tuning/infrastructure/repository/sql"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
	"github.com/tigerroll/tunestore/pkg/tuning/test"
)

func TestCallerTransaction_FailedOperationRollsBackOnlyItsSavepoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := tx.RunInTx(ctx, f.tm, func(ctx context.Context, _ tx.Tx) error {
		d1, err := model.NewFlowDefinition("f1", "u1")
		require.NoError(t, err)
		if _, err := f.repo.CreateFlowDefinition(ctx, d1); err != nil {
			return err
		}

		orphan := &model.FlowExecution{FlowExecID: "e1", FlowExecURL: "u", FlowDefinitionID: 999}
		_, err = f.repo.CreateFlowExecution(ctx, orphan)
		assert.ErrorIs(t, err, exception.ErrConstraintViolation)

		// Reads inside the transaction see its uncommitted writes.
		found, err := f.repo.FindFlowDefinitionByFlowDefID(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, d1, found)

		d2, err := model.NewFlowDefinition("f2", "u2")
		require.NoError(t, err)
		_, err = f.repo.CreateFlowDefinition(ctx, d2)
		return err
	})
	require.NoError(t, err)

	n, err := f.repo.CountFlowDefinitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = f.repo.CountFlowExecutions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCallerTransaction_RollbackDiscardsAllOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := tx.RunInTx(ctx, f.tm, func(ctx context.Context, _ tx.Tx) error {
		d, err := model.NewFlowDefinition("f1", "u1")
		require.NoError(t, err)
		if _, err := f.repo.CreateFlowDefinition(ctx, d); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	n, err := f.repo.CountFlowDefinitions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCanceledContext_LeavesNoPartialState(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := model.NewFlowDefinition("f1", "u1")
	require.NoError(t, err)
	_, err = f.repo.CreateFlowDefinition(ctx, d)
	assert.ErrorIs(t, err, context.Canceled)

	n, err := f.repo.CountFlowDefinitions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type recordedOperation struct {
	entity, operation, outcome string
}

// recordingRecorder keeps every recorded operation.
type recordingRecorder struct {
	mu  sync.Mutex
	ops []recordedOperation
}

func (r *recordingRecorder) RecordOperation(_ context.Context, entity, operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOperation{entity, operation, outcome})
}

func TestRecorder_OutcomePerOperation(t *testing.T) {
	rec := &recordingRecorder{}
	f := newFixture(t, sql.WithRecorder(rec))
	ctx := context.Background()

	def := f.flowDefinition(t, "f1")
	_, _ = f.repo.FindFlowDefinitionByID(ctx, 999)
	_, _ = f.repo.CreateFlowExecution(ctx, &model.FlowExecution{FlowExecID: "e", FlowExecURL: "u", FlowDefinitionID: 999})
	_, _ = f.repo.CreateFlowDefinition(ctx, &model.FlowDefinition{FlowDefURL: "u"})
	_, _ = f.repo.FindFlowDefinitionByID(ctx, def.ID)

	assert.Equal(t, []recordedOperation{
		{"flow_definition", "create", "ok"},
		{"flow_definition", "find", "not_found"},
		{"flow_execution", "create", "constraint"},
		{"flow_definition", "create", "validation"},
		{"flow_definition", "find", "ok"},
	}, rec.ops)
}

// newUnavailableRepository backs the repository with a sqlmock connection.
func newUnavailableRepository(t *testing.T) (*sql.SQLTuningRepository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	conn := gormadapter.NewGormDBAdapter(gormDB, dbconfig.DatabaseConfig{Type: "mysql"}, "metadata")
	resolver := test.NewTestSingleConnectionResolver(conn)
	tm := gormadapter.NewGormTransactionManager(resolver, "metadata")
	return sql.NewSQLTuningRepository(resolver, tm, "metadata"), mock
}

func TestStorageUnavailable_IsRetryable(t *testing.T) {
	repo, mock := newUnavailableRepository(t)
	ctx := context.Background()
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	mock.ExpectQuery("SELECT .* FROM `flow_definition`").WillReturnError(refused)
	_, err := repo.FindFlowDefinitionByID(ctx, 1)
	assert.ErrorIs(t, err, exception.ErrStorageUnavailable)
	assert.True(t, exception.IsRetryable(err))

	mock.ExpectBegin().WillReturnError(refused)
	d, err := model.NewFlowDefinition("f1", "u1")
	require.NoError(t, err)
	_, err = repo.CreateFlowDefinition(ctx, d)
	assert.ErrorIs(t, err, exception.ErrStorageUnavailable)
	assert.Zero(t, d.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_LocksReferencesButNotNaturalKeyReads(t *testing.T) {
	repo, mock := newUnavailableRepository(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `flow_definition` WHERE .*`id` = \\? FOR SHARE$").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "flow_def_id", "flow_def_url"}).AddRow(1, "f1", "http://x/f1"))
	mock.ExpectQuery("SELECT \\* FROM `flow_execution` WHERE .*`flow_exec_id` = \\?$").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `flow_execution`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	e, err := model.NewFlowExecution("e1", "http://x/e1", 1)
	require.NoError(t, err)
	id, err := repo.CreateFlowExecution(ctx, e)

	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DeadlockVictimIsRetryable(t *testing.T) {
	repo, mock := newUnavailableRepository(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `flow_definition` WHERE .*`flow_def_id` = \\?$").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `flow_definition`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	mock.ExpectRollback()

	d, err := model.NewFlowDefinition("f1", "http://x/f1")
	require.NoError(t, err)
	_, err = repo.CreateFlowDefinition(ctx, d)

	assert.ErrorIs(t, err, exception.ErrStorageUnavailable)
	assert.True(t, exception.IsRetryable(err))
	assert.Zero(t, d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
