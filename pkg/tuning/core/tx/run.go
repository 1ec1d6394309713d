package tx

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// RunInTx runs fn in a transaction and commits when fn returns nil.
//
// When ctx already carries a transaction, fn runs inside a savepoint of it
// instead: an error rolls back to the savepoint and leaves the outer
// transaction usable, and the commit is left to the owner of the outer
// transaction. A panic in fn rolls back and is re-raised.
func RunInTx(ctx context.Context, tm TransactionManager, fn func(ctx context.Context, t Tx) error) (err error) {
	if outer, ok := FromContext(ctx); ok {
		return runInSavepoint(ctx, outer, fn)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if rbErr := tm.Rollback(t); rbErr != nil {
				logger.Errorf("Rollback after panic failed: %v", rbErr)
			}
			panic(r)
		}
	}()

	if err = fn(WithTx(ctx, t), t); err != nil {
		if rbErr := tm.Rollback(t); rbErr != nil {
			logger.Warnf("Rollback failed: %v (original error: %v)", rbErr, err)
		}
		return err
	}
	// A cancellation observed before commit leaves no partial state.
	if cerr := ctx.Err(); cerr != nil {
		if rbErr := tm.Rollback(t); rbErr != nil {
			logger.Warnf("Rollback after cancellation failed: %v", rbErr)
		}
		return cerr
	}
	return tm.Commit(t)
}

func runInSavepoint(ctx context.Context, outer Tx, fn func(ctx context.Context, t Tx) error) (err error) {
	name := SavepointName()
	if err := outer.Savepoint(name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}
	defer func() {
		if r := recover(); r != nil {
			if rbErr := outer.RollbackToSavepoint(name); rbErr != nil {
				logger.Errorf("Rollback to savepoint %s after panic failed: %v", name, rbErr)
			}
			panic(r)
		}
	}()

	if err = fn(ctx, outer); err != nil {
		if rbErr := outer.RollbackToSavepoint(name); rbErr != nil {
			logger.Warnf("Rollback to savepoint %s failed: %v (original error: %v)", name, rbErr, err)
		}
		return err
	}
	return nil
}

// SavepointName returns a unique savepoint identifier valid on every dialect.
func SavepointName() string {
	return "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
