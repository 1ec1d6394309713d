package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// --- JobSuggestedParamValue implementation ---

func (r *SQLTuningRepository) CreateJobSuggestedParamValue(ctx context.Context, value *model.JobSuggestedParamValue) (int64, error) {
	const op = "SQLTuningRepository.CreateJobSuggestedParamValue"
	var created *model.JobSuggestedParamValue

	err := r.instrument(ctx, op, entityJobSuggestedParamValue, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "jobSuggestedParamValue", value); err != nil {
			return err
		}
		if err := value.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *value
			c.ID = 0
			if err := r.checkJobSuggestedParamValue(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainJobSuggestedParamValue(&c)
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
	*value = *created
	return value.ID, nil
}

func (r *SQLTuningRepository) UpdateJobSuggestedParamValue(ctx context.Context, id int64, patch model.JobSuggestedParamValuePatch) (*model.JobSuggestedParamValue, error) {
	const op = "SQLTuningRepository.UpdateJobSuggestedParamValue"
	var updated *model.JobSuggestedParamValue

	err := r.instrument(ctx, op, entityJobSuggestedParamValue, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[JobSuggestedParamValueEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainJobSuggestedParamValue(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkJobSuggestedParamValue(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainJobSuggestedParamValue(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkJobSuggestedParamValue resolves both references and enforces one value per parameter within a set.
func (r *SQLTuningRepository) checkJobSuggestedParamValue(ctx context.Context, t tx.Tx, op string, v *model.JobSuggestedParamValue) error {
	if err := requireReference[JobSuggestedParamSetEntity](ctx, t, op, "jobSuggestedParamSet", v.JobSuggestedParamSetID); err != nil {
		return err
	}
	if err := requireReference[TuningParameterEntity](ctx, t, op, "tuningParameter", v.TuningParameterID); err != nil {
		return err
	}
	return requireUnique[JobSuggestedParamValueEntity](ctx, t, op, "tuningParameter", map[string]interface{}{
		"job_suggested_param_set_id": v.JobSuggestedParamSetID,
		"tuning_parameter_id":        v.TuningParameterID,
	}, v.ID)
}

func (r *SQLTuningRepository) FindJobSuggestedParamValueByID(ctx context.Context, id int64) (*model.JobSuggestedParamValue, error) {
	const op = "SQLTuningRepository.FindJobSuggestedParamValueByID"
	return r.findJobSuggestedParamValue(ctx, op, byID(id), fmt.Sprintf("JobSuggestedParamValue (ID: %d)", id))
}

func (r *SQLTuningRepository) FindJobSuggestedParamValue(ctx context.Context, paramSetID, tuningParameterID int64) (*model.JobSuggestedParamValue, error) {
	const op = "SQLTuningRepository.FindJobSuggestedParamValue"
	return r.findJobSuggestedParamValue(ctx, op,
		map[string]interface{}{"job_suggested_param_set_id": paramSetID, "tuning_parameter_id": tuningParameterID},
		fmt.Sprintf("JobSuggestedParamValue (set: %d, parameter: %d)", paramSetID, tuningParameterID),
	)
}

func (r *SQLTuningRepository) findJobSuggestedParamValue(ctx context.Context, op string, query map[string]interface{}, what string) (*model.JobSuggestedParamValue, error) {
	var found *model.JobSuggestedParamValue
	err := r.instrument(ctx, op, entityJobSuggestedParamValue, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[JobSuggestedParamValueEntity](ctx, exec, query, "")
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, what)
		}
		found = toDomainJobSuggestedParamValue(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) FindJobSuggestedParamValuesBySet(ctx context.Context, paramSetID int64) ([]*model.JobSuggestedParamValue, error) {
	const op = "SQLTuningRepository.FindJobSuggestedParamValuesBySet"
	var found []*model.JobSuggestedParamValue
	err := r.instrument(ctx, op, entityJobSuggestedParamValue, operationList, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entities, err := findRows[JobSuggestedParamValueEntity](ctx, exec, map[string]interface{}{"job_suggested_param_set_id": paramSetID})
		if err != nil {
			return err
		}
		found = make([]*model.JobSuggestedParamValue, 0, len(entities))
		for i := range entities {
			found = append(found, toDomainJobSuggestedParamValue(&entities[i]))
		}
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountJobSuggestedParamValues(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountJobSuggestedParamValues"
	return r.count(ctx, op, entityJobSuggestedParamValue, &JobSuggestedParamValueEntity{})
}

func (r *SQLTuningRepository) DeleteJobSuggestedParamValue(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteJobSuggestedParamValue"
	return r.instrument(ctx, op, entityJobSuggestedParamValue, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[JobSuggestedParamValueEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
