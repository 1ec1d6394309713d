package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// --- TuningParameter implementation ---

func (r *SQLTuningRepository) CreateTuningParameter(ctx context.Context, param *model.TuningParameter) (int64, error) {
	const op = "SQLTuningRepository.CreateTuningParameter"
	var created *model.TuningParameter

	err := r.instrument(ctx, op, entityTuningParameter, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "tuningParameter", param); err != nil {
			return err
		}
		if err := param.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *param
			c.ID = 0
			if err := r.checkTuningParameter(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainTuningParameter(&c)
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
	*param = *created
	return param.ID, nil
}

func (r *SQLTuningRepository) UpdateTuningParameter(ctx context.Context, id int64, patch model.TuningParameterPatch) (*model.TuningParameter, error) {
	const op = "SQLTuningRepository.UpdateTuningParameter"
	var updated *model.TuningParameter

	err := r.instrument(ctx, op, entityTuningParameter, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[TuningParameterEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainTuningParameter(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkTuningParameter(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainTuningParameter(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkTuningParameter resolves the algorithm and enforces the uniqueness of the name within it.
func (r *SQLTuningRepository) checkTuningParameter(ctx context.Context, t tx.Tx, op string, p *model.TuningParameter) error {
	if err := requireReference[TuningAlgorithmEntity](ctx, t, op, "tuningAlgorithm", p.TuningAlgorithmID); err != nil {
		return err
	}
	return requireUnique[TuningParameterEntity](ctx, t, op, "paramName", map[string]interface{}{
		"tuning_algorithm_id": p.TuningAlgorithmID,
		"param_name":          p.ParamName,
	}, p.ID)
}

func (r *SQLTuningRepository) FindTuningParameterByID(ctx context.Context, id int64) (*model.TuningParameter, error) {
	const op = "SQLTuningRepository.FindTuningParameterByID"
	return r.findTuningParameter(ctx, op, byID(id), fmt.Sprintf("TuningParameter (ID: %d)", id))
}

func (r *SQLTuningRepository) FindTuningParameterByName(ctx context.Context, tuningAlgorithmID int64, paramName string) (*model.TuningParameter, error) {
	const op = "SQLTuningRepository.FindTuningParameterByName"
	return r.findTuningParameter(ctx, op,
		map[string]interface{}{"tuning_algorithm_id": tuningAlgorithmID, "param_name": paramName},
		fmt.Sprintf("TuningParameter (algorithm: %d, name: %s)", tuningAlgorithmID, paramName),
	)
}

func (r *SQLTuningRepository) findTuningParameter(ctx context.Context, op string, query map[string]interface{}, what string) (*model.TuningParameter, error) {
	var found *model.TuningParameter
	err := r.instrument(ctx, op, entityTuningParameter, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[TuningParameterEntity](ctx, exec, query, "")
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, what)
		}
		found = toDomainTuningParameter(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) FindTuningParametersByAlgorithm(ctx context.Context, tuningAlgorithmID int64) ([]*model.TuningParameter, error) {
	const op = "SQLTuningRepository.FindTuningParametersByAlgorithm"
	var found []*model.TuningParameter
	err := r.instrument(ctx, op, entityTuningParameter, operationList, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entities, err := findRows[TuningParameterEntity](ctx, exec, map[string]interface{}{"tuning_algorithm_id": tuningAlgorithmID})
		if err != nil {
			return err
		}
		found = make([]*model.TuningParameter, 0, len(entities))
		for i := range entities {
			found = append(found, toDomainTuningParameter(&entities[i]))
		}
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountTuningParameters(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountTuningParameters"
	return r.count(ctx, op, entityTuningParameter, &TuningParameterEntity{})
}

func (r *SQLTuningRepository) DeleteTuningParameter(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteTuningParameter"
	return r.instrument(ctx, op, entityTuningParameter, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[TuningParameterEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			if err := requireNoDependents[JobSuggestedParamValueEntity](ctx, t, op, map[string]interface{}{"tuning_parameter_id": id}); err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
