package sql_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

func TestJobSuggestedParamSet_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "SPARK", 1, "EXECUTION_TIME")
	def := f.flowDefinition(t, "f1")
	exec := f.flowExecution(t, "e1", def.ID)
	set := f.paramSet(t, algo.ID)

	assert.Nil(t, set.FlowExecutionID)
	assert.Nil(t, set.Fitness)

	fitness := 0.42
	state := model.ParamSetStateFitnessComputed
	best := true
	updated, err := f.repo.UpdateJobSuggestedParamSet(ctx, set.ID, model.JobSuggestedParamSetPatch{
		FlowExecutionID: &exec.ID,
		ParamSetState:   &state,
		IsParamSetBest:  &best,
		Fitness:         &fitness,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FlowExecutionID)
	assert.Equal(t, exec.ID, *updated.FlowExecutionID)
	assert.Equal(t, model.ParamSetStateFitnessComputed, updated.ParamSetState)
	assert.True(t, updated.IsParamSetBest)

	attached, err := f.repo.FindJobSuggestedParamSetsByFlowExecution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, []*model.JobSuggestedParamSet{updated}, attached)

	assert.ErrorIs(t, f.repo.DeleteFlowExecution(ctx, exec.ID), exception.ErrConstraintViolation)

	cleared, err := f.repo.UpdateJobSuggestedParamSet(ctx, set.ID, model.JobSuggestedParamSetPatch{ClearFlowExecution: true, ClearFitness: true})
	require.NoError(t, err)
	stored, err := f.repo.FindJobSuggestedParamSetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.FlowExecutionID)
	assert.Nil(t, stored.Fitness)
	assert.Equal(t, cleared, stored)

	require.NoError(t, f.repo.DeleteFlowExecution(ctx, exec.ID))
}

func TestJobSuggestedParamSet_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "SPARK", 1, "EXECUTION_TIME")

	_, err := model.NewJobSuggestedParamSet(algo.ID, "PENDING")
	assert.ErrorIs(t, err, exception.ErrInvalidEnumValue)
	assert.Equal(t, "paramSetState", exception.FieldOf(err))

	missing := int64(999)
	s := &model.JobSuggestedParamSet{TuningAlgorithmID: algo.ID, FlowExecutionID: &missing, ParamSetState: model.ParamSetStateSent}
	_, err = f.repo.CreateJobSuggestedParamSet(ctx, s)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "flowExecution", exception.FieldOf(err))

	s = &model.JobSuggestedParamSet{TuningAlgorithmID: 999, ParamSetState: model.ParamSetStateSent}
	_, err = f.repo.CreateJobSuggestedParamSet(ctx, s)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "tuningAlgorithm", exception.FieldOf(err))

	n, err := f.repo.CountJobSuggestedParamSets(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.repo.FindJobSuggestedParamSetByID(ctx, 999)
	assert.ErrorIs(t, err, exception.ErrNotFound)
}

func TestJobSuggestedParamValue_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")
	param := f.tuningParameter(t, algo.ID, "mapreduce.map.memory.mb")
	set := f.paramSet(t, algo.ID)

	v, err := model.NewJobSuggestedParamValue(set.ID, param.ID, 2048)
	require.NoError(t, err)
	id, err := f.repo.CreateJobSuggestedParamValue(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	found, err := f.repo.FindJobSuggestedParamValue(ctx, set.ID, param.ID)
	require.NoError(t, err)
	assert.Equal(t, v, found)

	dup, err := model.NewJobSuggestedParamValue(set.ID, param.ID, 1024)
	require.NoError(t, err)
	_, err = f.repo.CreateJobSuggestedParamValue(ctx, dup)
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "tuningParameter", exception.FieldOf(err))

	value := 4096.0
	updated, err := f.repo.UpdateJobSuggestedParamValue(ctx, v.ID, model.JobSuggestedParamValuePatch{ParamValue: &value})
	require.NoError(t, err)
	assert.Equal(t, 4096.0, updated.ParamValue)
	assert.True(t, updated.UpdatedTs.After(v.UpdatedTs))

	assert.ErrorIs(t, f.repo.DeleteJobSuggestedParamSet(ctx, set.ID), exception.ErrConstraintViolation)
	assert.ErrorIs(t, f.repo.DeleteTuningParameter(ctx, param.ID), exception.ErrConstraintViolation)

	require.NoError(t, f.repo.DeleteJobSuggestedParamValue(ctx, v.ID))
	_, err = f.repo.FindJobSuggestedParamValueByID(ctx, v.ID)
	assert.ErrorIs(t, err, exception.ErrNotFound)
	require.NoError(t, f.repo.DeleteJobSuggestedParamSet(ctx, set.ID))
}

func TestJobSuggestedParamValue_NaNRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")
	param := f.tuningParameter(t, algo.ID, "p")
	set := f.paramSet(t, algo.ID)

	_, err := model.NewJobSuggestedParamValue(set.ID, param.ID, math.NaN())
	assert.ErrorIs(t, err, exception.ErrValidation)
	assert.Equal(t, "paramValue", exception.FieldOf(err))

	_, err = f.repo.CreateJobSuggestedParamValue(ctx, &model.JobSuggestedParamValue{JobSuggestedParamSetID: set.ID, TuningParameterID: param.ID, ParamValue: math.NaN()})
	assert.ErrorIs(t, err, exception.ErrValidation)

	nan := math.NaN()
	v, err := model.NewJobSuggestedParamValue(set.ID, param.ID, 1)
	require.NoError(t, err)
	_, err = f.repo.CreateJobSuggestedParamValue(ctx, v)
	require.NoError(t, err)
	_, err = f.repo.UpdateJobSuggestedParamValue(ctx, v.ID, model.JobSuggestedParamValuePatch{ParamValue: &nan})
	assert.ErrorIs(t, err, exception.ErrValidation)
}

func TestJobSuggestedParamValue_MissingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "PIG", 1, "RESOURCE")
	param := f.tuningParameter(t, algo.ID, "p")
	set := f.paramSet(t, algo.ID)

	_, err := f.repo.CreateJobSuggestedParamValue(ctx, &model.JobSuggestedParamValue{JobSuggestedParamSetID: 999, TuningParameterID: param.ID, ParamValue: 1})
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "jobSuggestedParamSet", exception.FieldOf(err))

	_, err = f.repo.CreateJobSuggestedParamValue(ctx, &model.JobSuggestedParamValue{JobSuggestedParamSetID: set.ID, TuningParameterID: 999, ParamValue: 1})
	assert.ErrorIs(t, err, exception.ErrConstraintViolation)
	assert.Equal(t, "tuningParameter", exception.FieldOf(err))

	n, err := f.repo.CountJobSuggestedParamValues(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobSuggestedParamValue_ConcurrentCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	algo := f.tuningAlgorithm(t, "SPARK", 1, "RESOURCE")
	p1 := f.tuningParameter(t, algo.ID, "spark.executor.memory")
	p2 := f.tuningParameter(t, algo.ID, "spark.executor.cores")
	set := f.paramSet(t, algo.ID)

	values := []*model.JobSuggestedParamValue{
		{JobSuggestedParamSetID: set.ID, TuningParameterID: p1.ID, ParamValue: 4096},
		{JobSuggestedParamSetID: set.ID, TuningParameterID: p2.ID, ParamValue: 4},
	}
	errs := make([]error, len(values))
	var wg sync.WaitGroup
	for i := range values {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.repo.CreateJobSuggestedParamValue(ctx, values[i])
		}(i)
	}
	wg.Wait()

	for i, v := range values {
		require.NoError(t, errs[i])
		found, err := f.repo.FindJobSuggestedParamValueByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, v, found)
	}
	assert.NotEqual(t, values[0].ID, values[1].ID)

	listed, err := f.repo.FindJobSuggestedParamValuesBySet(ctx, set.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
