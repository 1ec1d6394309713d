package sql

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	tx "github.com/tigerroll/tunestore/pkg/tuning/core/tx"
)

// --- FlowDefinition implementation ---

func (r *SQLTuningRepository) CreateFlowDefinition(ctx context.Context, def *model.FlowDefinition) (int64, error) {
	const op = "SQLTuningRepository.CreateFlowDefinition"
	var created *model.FlowDefinition

	err := r.instrument(ctx, op, entityFlowDefinition, operationCreate, func(ctx context.Context) error {
		if err := requireRecord(op, "flowDefinition", def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			c := *def
			c.ID = 0
			if err := r.checkFlowDefinition(ctx, t, op, &c); err != nil {
				return err
			}
			r.policy.StampCreate(&c)
			entity := fromDomainFlowDefinition(&c)
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
	*def = *created
	return def.ID, nil
}

func (r *SQLTuningRepository) UpdateFlowDefinition(ctx context.Context, id int64, patch model.FlowDefinitionPatch) (*model.FlowDefinition, error) {
	const op = "SQLTuningRepository.UpdateFlowDefinition"
	var updated *model.FlowDefinition

	err := r.instrument(ctx, op, entityFlowDefinition, operationUpdate, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[FlowDefinitionEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			d := toDomainFlowDefinition(current)
			patch.Apply(d)
			if err := d.Validate(); err != nil {
				return err
			}
			if err := r.checkFlowDefinition(ctx, t, op, d); err != nil {
				return err
			}
			r.policy.StampUpdate(d, current.CreatedTs, current.UpdatedTs)
			entity := fromDomainFlowDefinition(d)
			if _, err := t.ExecuteUpdate(ctx, entity, "UPDATE", entity.TableName(), nil); err != nil {
				return err
			}
			updated = d
			return nil
		})
	})
	return updated, err
}

// checkFlowDefinition enforces the uniqueness of flowDefId.
func (r *SQLTuningRepository) checkFlowDefinition(ctx context.Context, t tx.Tx, op string, d *model.FlowDefinition) error {
	return requireUnique[FlowDefinitionEntity](ctx, t, op, "flowDefId", map[string]interface{}{"flow_def_id": d.FlowDefID}, d.ID)
}

func (r *SQLTuningRepository) FindFlowDefinitionByID(ctx context.Context, id int64) (*model.FlowDefinition, error) {
	const op = "SQLTuningRepository.FindFlowDefinitionByID"
	return r.findFlowDefinition(ctx, op, byID(id), fmt.Sprintf("FlowDefinition (ID: %d)", id))
}

func (r *SQLTuningRepository) FindFlowDefinitionByFlowDefID(ctx context.Context, flowDefID string) (*model.FlowDefinition, error) {
	const op = "SQLTuningRepository.FindFlowDefinitionByFlowDefID"
	return r.findFlowDefinition(ctx, op, map[string]interface{}{"flow_def_id": flowDefID}, fmt.Sprintf("FlowDefinition (flowDefId: %s)", flowDefID))
}

func (r *SQLTuningRepository) findFlowDefinition(ctx context.Context, op string, query map[string]interface{}, what string) (*model.FlowDefinition, error) {
	var found *model.FlowDefinition
	err := r.instrument(ctx, op, entityFlowDefinition, operationFind, func(ctx context.Context) error {
		exec, err := r.getExecutor(ctx)
		if err != nil {
			return err
		}
		entity, err := findRow[FlowDefinitionEntity](ctx, exec, query, "")
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(op, what)
		}
		found = toDomainFlowDefinition(entity)
		return nil
	})
	return found, err
}

func (r *SQLTuningRepository) CountFlowDefinitions(ctx context.Context) (int64, error) {
	const op = "SQLTuningRepository.CountFlowDefinitions"
	return r.count(ctx, op, entityFlowDefinition, &FlowDefinitionEntity{})
}

func (r *SQLTuningRepository) DeleteFlowDefinition(ctx context.Context, id int64) error {
	const op = "SQLTuningRepository.DeleteFlowDefinition"
	return r.instrument(ctx, op, entityFlowDefinition, operationDelete, func(ctx context.Context) error {
		return r.inTx(ctx, func(ctx context.Context, t tx.Tx) error {
			current, err := lockForUpdate[FlowDefinitionEntity](ctx, t, op, id)
			if err != nil {
				return err
			}
			if err := requireNoDependents[FlowExecutionEntity](ctx, t, op, map[string]interface{}{"flow_definition_id": id}); err != nil {
				return err
			}
			_, err = t.ExecuteUpdate(ctx, current, "DELETE", current.TableName(), nil)
			return err
		})
	})
}
