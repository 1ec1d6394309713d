package repository

import (
	"context"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
)

// JobSuggestedParamSet defines operations for persisting and retrieving suggested parameter sets.
type JobSuggestedParamSet interface {
	CreateJobSuggestedParamSet(ctx context.Context, set *model.JobSuggestedParamSet) (int64, error)
	UpdateJobSuggestedParamSet(ctx context.Context, id int64, patch model.JobSuggestedParamSetPatch) (*model.JobSuggestedParamSet, error)
	FindJobSuggestedParamSetByID(ctx context.Context, id int64) (*model.JobSuggestedParamSet, error)
	// FindJobSuggestedParamSetsByFlowExecution lists the sets attached to an execution ordered by id.
	FindJobSuggestedParamSetsByFlowExecution(ctx context.Context, flowExecutionID int64) ([]*model.JobSuggestedParamSet, error)
	CountJobSuggestedParamSets(ctx context.Context) (int64, error)
	DeleteJobSuggestedParamSet(ctx context.Context, id int64) error
}

// JobSuggestedParamValue defines operations for persisting and retrieving suggested parameter values.
type JobSuggestedParamValue interface {
	CreateJobSuggestedParamValue(ctx context.Context, value *model.JobSuggestedParamValue) (int64, error)
	UpdateJobSuggestedParamValue(ctx context.Context, id int64, patch model.JobSuggestedParamValuePatch) (*model.JobSuggestedParamValue, error)
	FindJobSuggestedParamValueByID(ctx context.Context, id int64) (*model.JobSuggestedParamValue, error)
	// FindJobSuggestedParamValue finds the value a set holds for one tuning parameter.
	FindJobSuggestedParamValue(ctx context.Context, paramSetID, tuningParameterID int64) (*model.JobSuggestedParamValue, error)
	FindJobSuggestedParamValuesBySet(ctx context.Context, paramSetID int64) ([]*model.JobSuggestedParamValue, error)
	CountJobSuggestedParamValues(ctx context.Context) (int64, error)
	DeleteJobSuggestedParamValue(ctx context.Context, id int64) error
}
