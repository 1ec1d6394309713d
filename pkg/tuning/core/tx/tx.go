// Package tx provides the transaction abstraction of the tuning metadata store.
// Every repository write runs inside a Tx, either one it begins itself or one
// the caller placed in the context with WithTx.
package tx

import (
	"context"
	"database/sql"

	"github.com/tigerroll/tunestore/pkg/tuning/core/adapter"
)

// LockMode selects the row lock taken by a locked read.
type LockMode int

const (
	// LockNone reads without a row lock.
	LockNone LockMode = iota
	// LockShare takes a shared lock (FOR SHARE) so referenced rows cannot be deleted concurrently.
	LockShare
	// LockUpdate takes an exclusive lock (FOR UPDATE).
	LockUpdate
)

// String returns the lock strength as used in a locking clause.
func (m LockMode) String() string {
	switch m {
	case LockShare:
		return "SHARE"
	case LockUpdate:
		return "UPDATE"
	default:
		return ""
	}
}

// TxExecutor defines the data operations available both on a plain connection
// and inside a transaction.
type TxExecutor interface {
	// ExecuteUpdate performs a write on model.
	//
	// operation is one of "CREATE", "UPDATE", "DELETE". UPDATE writes every column of
	// model, zero values included. query holds additional column = value conditions
	// combined with AND.
	ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (rowsAffected int64, err error)

	// ExecuteQuery reads all rows matching query into target.
	ExecuteQuery(ctx context.Context, target interface{}, query map[string]interface{}) error

	// ExecuteQueryAdvanced reads rows matching query with optional ordering and limit.
	ExecuteQueryAdvanced(ctx context.Context, target interface{}, query map[string]interface{}, orderBy string, limit int) error

	// ExecuteQueryLocked reads rows matching query into target holding the given row lock
	// until the end of the transaction.
	ExecuteQueryLocked(ctx context.Context, target interface{}, query map[string]interface{}, lock LockMode) error

	// Count counts the rows of model's table matching query.
	Count(ctx context.Context, model interface{}, query map[string]interface{}) (int64, error)
}

// Tx represents an ongoing database transaction.
type Tx interface {
	TxExecutor

	// Savepoint creates a savepoint with the given name.
	Savepoint(name string) error
	// RollbackToSavepoint undoes the changes made after the named savepoint.
	RollbackToSavepoint(name string) error
}

// TransactionManager manages the lifecycle of database transactions.
type TransactionManager interface {
	// Begin starts a new transaction. opts may carry an isolation level.
	Begin(ctx context.Context, opts ...*sql.TxOptions) (Tx, error)
	// Commit persists all changes made within t.
	Commit(t Tx) error
	// Rollback discards all changes made within t.
	Rollback(t Tx) error
}

// TransactionManagerFactory creates TransactionManagers bound to a named connection.
type TransactionManagerFactory interface {
	NewTransactionManager(conn adapter.ResourceConnection) TransactionManager
}
