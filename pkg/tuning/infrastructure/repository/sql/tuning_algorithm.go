package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

// --- TuningAlgorithm implementation ---

func (r *SQLTuningRepository) CreateTuningAlgorithm(ctx context.Context, algo *model.TuningAlgorithm) (int64, error) {
	const op = "SQLTuningRepository.CreateTuningAlgorithm"
	var created *model.TuningAlgorithm

	err := r.instrument(ctx, op, entityTuningAlgorithm, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "tuningAlgorithm", algo); err != nil {
			return err
		}
		if err := algo.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *algo
			c.ID = 0
			if err := r.checkTuningAlgorithm(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainTuningAlgorithm(&c)
			if _, err := t.ExecuteUpdate(ctx, entity, "CREATE", entity.TableName(), nil); err != nil {
				return err
			}
			c.ID = entity.ID
			created = &c
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	*algo = *created
	return algo.ID, nil
}

func (r *SQLTuningRepository) UpdateTuningAlgorithm(ctx context.Context, id int64, patch model.TuningAlgorithmPatch) (*model.TuningAlgorithm, error) {
	const op = "SQLTuningRepository.UpdateTuningAlgorithm"
	var updated *model.TuningAlgorithm

	err := r.instrument(ctx, op, entityTuningAlgorithm, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[TuningAlgorithmEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainTuningAlgorithm(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkTuningAlgorithm(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainTuningAlgorithm(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkTuningAlgorithm enforces the uniqueness of (jobType, algorithm, version, metric).
func (r *SQLTuningRepository) checkTuningAlgorithm(ctx context.Context, t tx.Tx, op string, a *model.TuningAlgorithm) error {
	return requireUnique[TuningAlgorithmEntity](ctx, t, op, "optimizationAlgoVersion", map[string]interface{}{
		"job_type":                  string(a.JobType),
		"optimization_algo":         string(a.OptimizationAlgo),
		"optimization_algo_version": a.OptimizationAlgoVersion,
		"optimization_metric":       string(a.OptimizationMetric),
	}, a.ID)
}

func (r *SQLTuningRepository) FindTuningAlgorithmByID(ctx context.Context, id int64) (*model.TuningAlgorithm, error) {
	const op = "SQLTuningRepository.FindTuningAlgorithmByID"
	return r.findTuningAlgorithm(ctx, op, byID(id), "", fmt.Sprintf("TuningAlgorithm (ID: %d)", id))
}

// FindTuningAlgorithm implements repository.TuningAlgorithm. Ties on the version
// are broken by the most recently created row.
func (r *SQLTuningRepository) FindTuningAlgorithm(ctx context.Context, jobType model.JobType, metric model.OptimizationMetric) (*model.TuningAlgorithm, error) {
	const op = "SQLTuningRepository.FindTuningAlgorithm"
	if !jobType.IsValid() {
		return nil, exception.NewInvalidEnumValue(op, "jobType", string(jobType))
	}
	if !metric.IsValid() {
		return nil, exception.NewInvalidEnumValue(op, "optimizationMetric", string(metric))
	}
	return r.findTuningAlgorithm(ctx, op,
		map[string]interface{}{"job_type": string(jobType), "optimization_metric": string(metric)},
		"optimization_algo_version DESC, id DESC",
		fmt.Sprintf("TuningAlgorithm (jobType: %s, metric: %s)", jobType, metric),
	)
}

func (r *SQLTuningRepository) findTuningAlgorithm(ctx context.Context, op string, query map[string]interface{}, orderBy, what string) (*model.TuningAlgorithm, error) {
	var found *model.TuningAlgorithm
	err := r.instrument(ctx, op, entityTuningAlgorithm, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[TuningAlgorithmEntity](ctx, exec, query, orderBy)
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, what)
		}
		found = toDomainTuningAlgorithm(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountTuningAlgorithms(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountTuningAlgorithms"
	return r.count(ctx, op, entityTuningAlgorithm, &TuningAlgorithmEntity{})
}

func (r *SQLTuningRepository) DeleteTuningAlgorithm(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteTuningAlgorithm"
	return r.instrument(ctx, op, entityTuningAlgorithm, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[TuningAlgorithmEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			dependents := map[string]interface{}{"tuning_algorithm_id": id}
			if err := requireNoDependents[TuningParameterEntity](ctx, t, op, dependents); err != nil {
				return err
			}
			if err := requireNoDependents[JobSuggestedParamSetEntity](ctx, t, op, dependents); err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
