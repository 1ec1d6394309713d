// Package sql implements repository.TuningRepository on the GORM database adapter.
package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	gormadapter "github.com/tigerroll/tunestore/pkg/tuning/adapter/database/gorm"
	coreAdapter "github.com/tigerroll/tunestore/pkg/tuning/core/adapter"
	repository "github.com/tigerroll/tunestore/pkg/tuning/core/domain/repository"
	metrics "github.com/tigerroll/tunestore/pkg/tuning/core/metrics"
	"github.com/tigerroll/tunestore/pkg/tuning/core/support/timestamp"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// Entity labels used in metrics and span attributes.
const (
	entityFlowDefinition         = "flow_definition"
	entityFlowExecution          = "flow_execution"
	entityTuningAlgorithm        = "tuning_algorithm"
	entityTuningParameter        = "tuning_parameter"
	entityJobSuggestedParamSet   = "job_suggested_param_set"
	entityJobSuggestedParamValue = "job_suggested_param_value"
)

// Operation labels used in metrics and span attributes.
const (
	operationCreate = "create"
	operationUpdate = "update"
	operationFind   = "find"
	operationList   = "list"
	operationCount  = "count"
	operationDelete = "delete"
)

// SQLTuningRepository implements the repository.TuningRepository interface.
type SQLTuningRepository struct {
	dbResolver coreAdapter.ResourceConnectionResolver // Expected to resolve to a database.DBConnection.
	// TxManager is the transaction manager of the repository database.
	TxManager tx.TransactionManager
	// dbName is the name of the database connection used by this repository (e.g., "metadata").
	dbName   string
	policy   *timestamp.Policy
	recorder metrics.Recorder
	tracer   metrics.Tracer
}

// Option configures an SQLTuningRepository.
type Option func(*SQLTuningRepository)

// WithClock sets the clock of the timestamp policy.
func WithClock(clock timestamp.Clock) Option {
	return func(r *SQLTuningRepository) { r.policy = timestamp.NewPolicy(clock) }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(r *SQLTuningRepository) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer metrics.Tracer) Option {
	return func(r *SQLTuningRepository) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewSQLTuningRepository creates a new instance of SQLTuningRepository.
//
// Parameters:
//
//	dbResolver: The database connection resolver.
//	txManager: The transaction manager bound to dbName.
//	dbName: The name of the database connection to be used (e.g., "metadata").
//	opts: Clock, recorder and tracer overrides. Defaults are the system clock and no-op observers.
func NewSQLTuningRepository(
	dbResolver coreAdapter.ResourceConnectionResolver,
	txManager tx.TransactionManager,
	dbName string,
	opts ...Option,
) *SQLTuningRepository {
	r := &SQLTuningRepository{
		dbResolver: dbResolver,
		TxManager:  txManager,
		dbName:     dbName,
		policy:     timestamp.NewPolicy(timestamp.SystemClock),
		recorder:   metrics.NewNoOpRecorder(),
		tracer:     metrics.NewNoOpTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// getDBConnection returns the DBConnection of the repository for reads outside a transaction.
func (r *SQLTuningRepository) getDBConnection(ctx context.Context) (database.DBConnection, error) {
	connAsResource, err := r.dbResolver.ResolveConnection(ctx, r.dbName)
	if err != nil {
		return nil, err
	}
	conn, ok := connAsResource.(database.DBConnection)
	if !ok {
		return nil, fmt.Errorf("resolved connection '%s' is not a database.DBConnection", r.dbName)
	}
	return conn, nil
}

// getExecutor returns the Tx in ctx, if any, or the plain connection.
// Reads inside a caller transaction must go through it to see its writes.
func (r *SQLTuningRepository) getExecutor(ctx context.Context) (tx.TxExecutor, error) {
	if t, ok := tx.FromContext(ctx); ok {
		return t, nil
	}
	return r.getDBConnection(ctx)
}

// inTx runs fn in a transaction, or in a savepoint of the transaction carried by ctx.
func (r *SQLTuningRepository) inTx(ctx context.Context, fn func(ctx context.Context, t tx.Tx) error) error {
	return tx.RunInTx(ctx, r.TxManager, fn)
}

// instrument runs fn inside a span and records its outcome. Errors leaving fn
// are translated into StoreErrors labelled with op.
func (r *SQLTuningRepository) instrument(ctx context.Context, op, entity, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := r.tracer.StartSpan(ctx, op, map[string]string{"entity": entity, "operation": operation})
	defer span.End()

	err := fn(ctx)
	if err != nil {
		err = exception.WithOp(gormadapter.TranslateError(op, err), op)
		span.RecordError(err)
		logger.Debugf("%s failed: %v", op, err)
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = exception.KindName(err)
	}
	r.recorder.RecordOperation(ctx, entity, operation, outcome, time.Since(start))
	return err
}

// count counts all rows of the table of m.
func (r *SQLTuningRepository) count(ctx context.Context, op, entity string, m row) (int64, error) {
	var n int64
	err := r.instrument(ctx, op, entity, operationCount, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		n, err = exec.Count(ctx, m, nil)
		return err
	})
	return n, err
}

// Close implements repository.TuningRepository.
func (r *SQLTuningRepository) Close() error {
	// Connections are owned by the DBProviders and closed with their lifecycle.
	return nil
}

// Verify that SQLTuningRepository implements all embedded interfaces of repository.TuningRepository.
var _ repository.TuningRepository = (*SQLTuningRepository)(nil)
