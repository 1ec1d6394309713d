package repository

import (
	"context"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
)

// TuningAlgorithm defines operations for persisting and retrieving tuning algorithms.
type TuningAlgorithm interface {
	CreateTuningAlgorithm(ctx context.Context, algo *model.TuningAlgorithm) (int64, error)
	UpdateTuningAlgorithm(ctx context.Context, id int64, patch model.TuningAlgorithmPatch) (*model.TuningAlgorithm, error)
	FindTuningAlgorithmByID(ctx context.Context, id int64) (*model.TuningAlgorithm, error)
	// FindTuningAlgorithm returns the highest algorithm version registered for the job type and metric.
	FindTuningAlgorithm(ctx context.Context, jobType model.JobType, metric model.OptimizationMetric) (*model.TuningAlgorithm, error)
	CountTuningAlgorithms(ctx context.Context) (int64, error)
	DeleteTuningAlgorithm(ctx context.Context, id int64) error
}

// TuningParameter defines operations for persisting and retrieving tuning parameter definitions.
type TuningParameter interface {
	CreateTuningParameter(ctx context.Context, param *model.TuningParameter) (int64, error)
	UpdateTuningParameter(ctx context.Context, id int64, patch model.TuningParameterPatch) (*model.TuningParameter, error)
	FindTuningParameterByID(ctx context.Context, id int64) (*model.TuningParameter, error)
	// FindTuningParameterByName finds a parameter of an algorithm by name.
	FindTuningParameterByName(ctx context.Context, tuningAlgorithmID int64, paramName string) (*model.TuningParameter, error)
	FindTuningParametersByAlgorithm(ctx context.Context, tuningAlgorithmID int64) ([]*model.TuningParameter, error)
	CountTuningParameters(ctx context.Context) (int64, error)
	DeleteTuningParameter(ctx context.Context, id int64) error
}
