package tx_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/tunestore/pkg/tuning/core/tx"
	"github.com/tigerroll/tunestore/pkg/tuning/test"
)

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	mockTx := new(test.MockTx)
	tm := new(test.MockTxManager)
	tm.On("Begin", mock.Anything, mock.Anything).Return(mockTx, nil)
	tm.On("Commit", mockTx).Return(nil)

	var seen tx.Tx
	err := tx.RunInTx(context.Background(), tm, func(ctx context.Context, _ tx.Tx) error {
		inCtx, ok := tx.FromContext(ctx)
		require.True(t, ok)
		seen = inCtx
		return nil
	})

	assert.NoError(t, err)
	assert.Same(t, mockTx, seen)
	tm.AssertExpectations(t)
	tm.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	mockTx := new(test.MockTx)
	tm := new(test.MockTxManager)
	tm.On("Begin", mock.Anything, mock.Anything).Return(mockTx, nil)
	tm.On("Rollback", mockTx).Return(nil)
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), tm, func(ctx context.Context, _ tx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	tm.AssertExpectations(t)
	tm.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	mockTx := new(test.MockTx)
	tm := new(test.MockTxManager)
	tm.On("Begin", mock.Anything, mock.Anything).Return(mockTx, nil)
	tm.On("Rollback", mockTx).Return(nil)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = tx.RunInTx(context.Background(), tm, func(ctx context.Context, _ tx.Tx) error {
			panic("kaboom")
		})
	})
	tm.AssertExpectations(t)
}

func TestRunInTx_BeginFailure(t *testing.T) {
	tm := new(test.MockTxManager)
	beginErr := errors.New("no connection")
	tm.On("Begin", mock.Anything, mock.Anything).Return(nil, beginErr)

	called := false
	err := tx.RunInTx(context.Background(), tm, func(ctx context.Context, _ tx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, beginErr)
	assert.False(t, called)
}

func TestRunInTx_CanceledContextBeforeCommit(t *testing.T) {
	mockTx := new(test.MockTx)
	tm := new(test.MockTxManager)
	tm.On("Begin", mock.Anything, mock.Anything).Return(mockTx, nil)
	tm.On("Rollback", mockTx).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := tx.RunInTx(ctx, tm, func(ctx context.Context, _ tx.Tx) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	tm.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRunInTx_NestedUsesSavepoint(t *testing.T) {
	outer := new(test.MockTx)
	outer.On("Savepoint", mock.AnythingOfType("string")).Return(nil)
	outer.On("RollbackToSavepoint", mock.AnythingOfType("string")).Return(nil)
	tm := new(test.MockTxManager)
	ctx := tx.WithTx(context.Background(), outer)
	failure := errors.New("inner failure")

	err := tx.RunInTx(ctx, tm, func(ctx context.Context, _ tx.Tx) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	outer.AssertExpectations(t)
	// The savepoint name must be the one rolled back to.
	created := outer.Calls[0].Arguments.String(0)
	rolledBack := outer.Calls[1].Arguments.String(0)
	assert.Equal(t, created, rolledBack)
	tm.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything)
	tm.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRunInTx_NestedSuccessLeavesCommitToOwner(t *testing.T) {
	outer := new(test.MockTx)
	outer.On("Savepoint", mock.AnythingOfType("string")).Return(nil)
	tm := new(test.MockTxManager)

	err := tx.RunInTx(tx.WithTx(context.Background(), outer), tm, func(ctx context.Context, _ tx.Tx) error {
		return nil
	})

	assert.NoError(t, err)
	outer.AssertNotCalled(t, "RollbackToSavepoint", mock.Anything)
	tm.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSavepointName_IsUniqueIdentifier(t *testing.T) {
	a, b := tx.SavepointName(), tx.SavepointName()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sp_"))
	assert.NotContains(t, a, "-")
}

func TestFromContext_Empty(t *testing.T) {
	_, ok := tx.FromContext(context.Background())
	assert.False(t, ok)
}
