package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// --- FlowExecution implementation ---

func (r *SQLTuningRepository) CreateFlowExecution(ctx context.Context, exec *model.FlowExecution) (int64, error) {
	const op = "SQLTuningRepository.CreateFlowExecution"
	var created *model.FlowExecution

	err := r.instrument(ctx, op, entityFlowExecution, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "flowExecution", exec); err != nil {
			return err
		}
		if err := exec.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *exec
			c.ID = 0
			if err := r.checkFlowExecution(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainFlowExecution(&c)
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
	*exec = *created
	return exec.ID, nil
}

func (r *SQLTuningRepository) UpdateFlowExecution(ctx context.Context, id int64, patch model.FlowExecutionPatch) (*model.FlowExecution, error) {
	const op = "SQLTuningRepository.UpdateFlowExecution"
	var updated *model.FlowExecution

	err := r.instrument(ctx, op, entityFlowExecution, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[FlowExecutionEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainFlowExecution(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkFlowExecution(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainFlowExecution(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkFlowExecution resolves the flow definition and enforces the uniqueness of flowExecId.
func (r *SQLTuningRepository) checkFlowExecution(ctx context.Context, t tx.Tx, op string, e *model.FlowExecution) error {
	if err := requireReference[FlowDefinitionEntity](ctx, t, op, "flowDefinition", e.FlowDefinitionID); err != nil {
		return err
	}
	return requireUnique[FlowExecutionEntity](ctx, t, op, "flowExecId", map[string]interface{}{"flow_exec_id": e.FlowExecID}, e.ID)
}

func (r *SQLTuningRepository) FindFlowExecutionByID(ctx context.Context, id int64) (*model.FlowExecution, error) {
	const op = "SQLTuningRepository.FindFlowExecutionByID"
	return r.findFlowExecution(ctx, op, byID(id), fmt.Sprintf("FlowExecution (ID: %d)", id))
}

func (r *SQLTuningRepository) FindFlowExecutionByFlowExecID(ctx context.Context, flowExecID string) (*model.FlowExecution, error) {
	const op = "SQLTuningRepository.FindFlowExecutionByFlowExecID"
	return r.findFlowExecution(ctx, op, map[string]interface{}{"flow_exec_id": flowExecID}, fmt.Sprintf("FlowExecution (flowExecId: %s)", flowExecID))
}

func (r *SQLTuningRepository) findFlowExecution(ctx context.Context, op string, query map[string]interface{}, what string) (*model.FlowExecution, error) {
	var found *model.FlowExecution
	err := r.instrument(ctx, op, entityFlowExecution, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[FlowExecutionEntity](ctx, exec, query, "")
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, what)
		}
		found = toDomainFlowExecution(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) FindFlowExecutionsByFlowDefinition(ctx context.Context, flowDefinitionID int64) ([]*model.FlowExecution, error) {
	const op = "SQLTuningRepository.FindFlowExecutionsByFlowDefinition"
	var found []*model.FlowExecution
	err := r.instrument(ctx, op, entityFlowExecution, operationList, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entities, err := findRows[FlowExecutionEntity](ctx, exec, map[string]interface{}{"flow_definition_id": flowDefinitionID})
		if err != nil {
			return err
		}
		found = make([]*model.FlowExecution, 0, len(entities))
		for i := range entities {
			found = append(found, toDomainFlowExecution(&entities[i]))
		}
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountFlowExecutions(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountFlowExecutions"
	return r.count(ctx, op, entityFlowExecution, &FlowExecutionEntity{})
}

func (r *SQLTuningRepository) DeleteFlowExecution(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteFlowExecution"
	return r.instrument(ctx, op, entityFlowExecution, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[FlowExecutionEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			if err := requireNoDependents[JobSuggestedParamSetEntity](ctx, t, op, map[string]interface{}{"flow_execution_id": id}); err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
