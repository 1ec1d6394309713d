package sql_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

func TestTuningAlgorithm_JobTypeEnum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := model.NewTuningAlgorithm("UNKNOWN", "PSO", 1, "RESOURCE")
	assert.ErrorIs(t, err, exception.ErrInvalidEnumValue)
	assert.Equal(t, "jobType", exception.FieldOf(err))

	literal := &model.TuningAlgorithm{JobType: "UNKNOWN", OptimizationAlgo: "PSO", OptimizationAlgoVersion: 1, OptimizationMetric: "RESOURCE"}
	_, err = f.repo.CreateTuningAlgorithm(ctx, literal)
	assert.ErrorIs(t, err, exception.ErrInvalidEnumValue)

	n, err := f.repo.CountTuningAlgorithms(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	algo := f.tuningAlgorithm(t, "SPARK", 1, "RESOURCE")
	assert.Equal(t, int64(1), algo.ID)
	found, err := f.repo.FindTuningAlgorithmByID(ctx, algo.ID)
	require.NoError(t, err)
	assert.Equal(t, algo, found)
}

func TestTuningAlgorithm_FindHighestVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")
	latest := f.tuningAlgorithm(t, "PIG", 3, "RESOURCE")
	f.tuningAlgorithm(t, "PIG", 2, "RESOURCE")
	f.tuningAlgorithm(t, "PIG", 9, "EXECUTION_TIME")

	found, err := f.repo.FindTuningAlgorithm(ctx, model.JobTypePig, model.OptimizationMetricResource)
	require.NoError(t, err)
	assert.Equal(t, latest, found)

	_, err = f.repo.FindTuningAlgorithm(ctx, model.JobTypeHive, model.OptimizationMetricResource)
	assert.ErrorIs(t, err, exception.ErrNotFound)

	_, err = f.repo.FindTuningAlgorithm(ctx, "TEZ", model.OptimizationMetricResource)
	assert.ErrorIs(t, err, exception.ErrInvalidEnumValue)
}

func TestTuningAlgorithm_UniqueAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "HIVE", 1, "RESOURCE")

	dup, err := model.NewTuningAlgorithm("HIVE", "PSO", 1, "RESOURCE")
	require.NoError(t, err)
	_, err = f.repo.CreateTuningAlgorithm(ctx, dup)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)

	version := 2
	updated, err := f.repo.UpdateTuningAlgorithm(ctx, algo.ID, model.TuningAlgorithmPatch{OptimizationAlgoVersion: &version})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OptimizationAlgoVersion)

	bad := model.JobType("MAPREDUCE")
	_, err = f.repo.UpdateTuningAlgorithm(ctx, algo.ID, model.TuningAlgorithmPatch{JobType: &bad})
	assert.ErrorIs(t, err, exception.ErrInvalidEnumValue)

	param := f.tuningParameter(t, algo.ID, "mapreduce.map.memory.mb")
	assert.ErrorIs(t, f.repo.DeleteTuningAlgorithm(ctx, algo.ID), exception.ErrConstraintViolation)

	require.NoError(t, f.repo.DeleteTuningParameter(ctx, param.ID))
	require.NoError(t, f.repo.DeleteTuningAlgorithm(ctx, algo.ID))
	assert.ErrorIs(t, f.repo.DeleteTuningAlgorithm(ctx, algo.ID), exception.ErrNotFound)
}

func TestTuningParameter_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")
	mem := f.tuningParameter(t, algo.ID, "mapreduce.map.memory.mb")
	sort := f.tuningParameter(t, algo.ID, "mapreduce.task.io.sort.mb")

	byName, err := f.repo.FindTuningParameterByName(ctx, algo.ID, "mapreduce.map.memory.mb")
	require.NoError(t, err)
	assert.Equal(t, mem, byName)

	listed, err := f.repo.FindTuningParametersByAlgorithm(ctx, algo.ID)
	require.NoError(t, err)
	assert.Equal(t, []*model.TuningParameter{mem, sort}, listed)

	dup, err := model.NewTuningParameter(algo.ID, "mapreduce.map.memory.mb", 1, 0, 2, 1)
	require.NoError(t, err)
	_, err = f.repo.CreateTuningParameter(ctx, dup)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "paramName", exception.FieldOf(err))

	orphan, err := model.NewTuningParameter(999, "x", 1, 0, 2, 1)
	require.NoError(t, err)
	_, err = f.repo.CreateTuningParameter(ctx, orphan)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "tuningAlgorithm", exception.FieldOf(err))

	derived := true
	low := 500.0
	_, err = f.repo.UpdateTuningParameter(ctx, mem.ID, model.TuningParameterPatch{MinValue: &low})
	assert.ErrorIs(t, err, exception.ErrValidation, "minValue above maxValue")

	updated, err := f.repo.UpdateTuningParameter(ctx, mem.ID, model.TuningParameterPatch{IsDerived: &derived})
	require.NoError(t, err)
	assert.True(t, updated.IsDerived)

	// false must be written back too.
	notDerived := false
	updated, err = f.repo.UpdateTuningParameter(ctx, mem.ID, model.TuningParameterPatch{IsDerived: &notDerived})
	require.NoError(t, err)
	stored, err := f.repo.FindTuningParameterByID(ctx, mem.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDerived)
	assert.Equal(t, updated, stored)

	_, err = f.repo.FindTuningParameterByName(ctx, algo.ID, "missing")
	assert.ErrorIs(t, err, exception.ErrNotFound)

	n, err := f.repo.CountTuningParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTuningParameter_NonFiniteRejected(t *testing.T) {
	f := newFixture(t)
	algo := f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")

	p := &model.TuningParameter{ParamName: "x", TuningAlgorithmID: algo.ID, DefaultValue: math.Inf(1), MaxValue: 1}
	_, err := f.repo.CreateTuningParameter(context.Background(), p)
	assert.ErrorIs(t, err, exception.ErrValidation)
	assert.Equal(t, "defaultValue", exception.FieldOf(err))
}
