package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// --- JobSuggestedParamSet implementation ---

func (r *SQLTuningRepository) CreateJobSuggestedParamSet(ctx context.Context, set *model.JobSuggestedParamSet) (int64, error) {
	const op = "SQLTuningRepository.CreateJobSuggestedParamSet"
	var created *model.JobSuggestedParamSet

	err := r.instrument(ctx, op, entityJobSuggestedParamSet, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "jobSuggestedParamSet", set); err != nil {
			return err
		}
		if err := set.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *set
			c.ID = 0
			if err := r.checkJobSuggestedParamSet(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainJobSuggestedParamSet(&c)
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
	*set = *created
	return set.ID, nil
}

func (r *SQLTuningRepository) UpdateJobSuggestedParamSet(ctx context.Context, id int64, patch model.JobSuggestedParamSetPatch) (*model.JobSuggestedParamSet, error) {
	const op = "SQLTuningRepository.UpdateJobSuggestedParamSet"
	var updated *model.JobSuggestedParamSet

	err := r.instrument(ctx, op, entityJobSuggestedParamSet, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[JobSuggestedParamSetEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainJobSuggestedParamSet(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkJobSuggestedParamSet(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainJobSuggestedParamSet(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkJobSuggestedParamSet resolves the algorithm and, when attached, the flow execution.
func (r *SQLTuningRepository) checkJobSuggestedParamSet(ctx context.Context, t tx.Tx, op string, s *model.JobSuggestedParamSet) error {
	if err := requireReference[TuningAlgorithmEntity](ctx, t, op, "tuningAlgorithm", s.TuningAlgorithmID); err != nil {
		return err
	}
	if s.FlowExecutionID == nil {
		return nil
	}
	return requireReference[FlowExecutionEntity](ctx, t, op, "flowExecution", *s.FlowExecutionID)
}

func (r *SQLTuningRepository) FindJobSuggestedParamSetByID(ctx context.Context, id int64) (*model.JobSuggestedParamSet, error) {
	const op = "SQLTuningRepository.FindJobSuggestedParamSetByID"
	var found *model.JobSuggestedParamSet
	err := r.instrument(ctx, op, entityJobSuggestedParamSet, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[JobSuggestedParamSetEntity](ctx, exec, byID(id), "")
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, fmt.Sprintf("JobSuggestedParamSet (ID: %d)", id))
		}
		found = toDomainJobSuggestedParamSet(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) FindJobSuggestedParamSetsByFlowExecution(ctx context.Context, flowExecutionID int64) ([]*model.JobSuggestedParamSet, error) {
	const op = "SQLTuningRepository.FindJobSuggestedParamSetsByFlowExecution"
	var found []*model.JobSuggestedParamSet
	err := r.instrument(ctx, op, entityJobSuggestedParamSet, operationList, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entities, err := findRows[JobSuggestedParamSetEntity](ctx, exec, map[string]interface{}{"flow_execution_id": flowExecutionID})
		if err != nil {
			return err
		}
		found = make([]*model.JobSuggestedParamSet, 0, len(entities))
		for i := range entities {
			found = append(found, toDomainJobSuggestedParamSet(&entities[i]))
		}
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountJobSuggestedParamSets(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountJobSuggestedParamSets"
	return r.count(ctx, op, entityJobSuggestedParamSet, &JobSuggestedParamSetEntity{})
}

func (r *SQLTuningRepository) DeleteJobSuggestedParamSet(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteJobSuggestedParamSet"
	return r.instrument(ctx, op, entityJobSuggestedParamSet, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[JobSuggestedParamSetEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			if err := requireNoDependents[JobSuggestedParamValueEntity](ctx, t, op, map[string]interface{}{"job_suggested_param_set_id": id}); err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
