package sql

import (
	"context"
	"fmt"

	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

// row is implemented by the schema entities.
type row interface {
	TableName() string
	PrimaryKey() int64
}

// byID is the query selecting a row by primary key.
func byID(id int64) map[string]interface{} {
	return map[string]interface{}{"id": id}
}

// requireRecord rejects a nil argument of a create.
func requireRecord[T any](op, field string, v *T) error {
	if v == nil {
		return exception.NewValidationError(op, field, "record is nil")
	}
	return nil
}

// findRow reads the first row of E matching query, ordered by orderBy.
// It returns nil when no row matches.
func findRow[E row](ctx context.Context, exec tx.TxExecutor, query map[string]interface{}, orderBy string) (*E, error) {
	var rows []E
	if err := exec.ExecuteQueryAdvanced(ctx, &rows, query, orderBy, 1); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// findRows reads all rows of E matching query ordered by id.
func findRows[E row](ctx context.Context, exec tx.TxExecutor, query map[string]interface{}) ([]E, error) {
	var rows []E
	if err := exec.ExecuteQueryAdvanced(ctx, &rows, query, "id", 0); err != nil {
		return nil, err
	}
	return rows, nil
}

// lockRow reads the row of E with the given id holding lock until the end of t.
func lockRow[E row](ctx context.Context, t tx.Tx, id int64, lock tx.LockMode) (*E, error) {
	var rows []E
	if err := t.ExecuteQueryLocked(ctx, &rows, byID(id), lock); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// lockForUpdate reads the target of an update or delete, failing with NotFound if absent.
func lockForUpdate[E row](ctx context.Context, t tx.Tx, op string, id int64) (*E, error) {
	e, err := lockRow[E](ctx, t, id, tx.LockUpdate)
	if err != nil {
		return nil, err
	}
	if e == nil {
		var zero E
		return nil, exception.NewNotFound(op, fmt.Sprintf("%s (ID: %d) not found", zero.TableName(), id))
	}
	return e, nil
}

// requireReference checks that the row of E with the given id exists and holds
// a shared lock on it, so it cannot be deleted before t commits.
func requireReference[E row](ctx context.Context, t tx.Tx, op, field string, id int64) error {
	e, err := lockRow[E](ctx, t, id, tx.LockShare)
	if err != nil {
		return err
	}
	if e == nil {
		var zero E
		return exception.NewConstraintViolation(op, field, fmt.Sprintf("referenced %s (ID: %d) does not exist", zero.TableName(), id), nil)
	}
	return nil
}

// requireUnique checks that no row of E other than selfID matches the natural key query.
// The read takes no lock: a locking read of an absent key holds a gap lock on
// InnoDB that deadlocks concurrent inserts into the same gap. Races between
// concurrent inserts are settled by the UNIQUE constraint of the schema.
func requireUnique[E row](ctx context.Context, t tx.Tx, op, field string, query map[string]interface{}, selfID int64) error {
	var rows []E
	if err := t.ExecuteQueryLocked(ctx, &rows, query, tx.LockNone); err != nil {
		return err
	}
	for _, e := range rows {
		if e.PrimaryKey() != selfID {
			return exception.NewConstraintViolation(op, field, fmt.Sprintf("%s with the same natural key already exists (ID: %d)", e.TableName(), e.PrimaryKey()), nil)
		}
	}
	return nil
}

// requireNoDependents fails with ConstraintViolation while a row of E matches query.
func requireNoDependents[E row](ctx context.Context, t tx.Tx, op string, query map[string]interface{}) error {
	n, err := t.Count(ctx, new(E), query)
	if err != nil {
		return err
	}
	if n > 0 {
		var zero E
		return exception.NewConstraintViolation(op, "", fmt.Sprintf("still referenced by %d %s row(s)", n, zero.TableName()), nil)
	}
	return nil
}

// notFound builds the NotFound error of a lookup.
func notFound(op, what string) error {
	return exception.NewNotFound(op, what+" not found")
}
