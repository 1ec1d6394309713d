package repository

import (
	"context"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
)

// FlowDefinition defines operations for persisting and retrieving flow definitions.
type FlowDefinition interface {
	// CreateFlowDefinition inserts def and writes the assigned id and timestamps back into it.
	CreateFlowDefinition(ctx context.Context, def *model.FlowDefinition) (int64, error)
	// UpdateFlowDefinition applies patch to the flow definition with the given id.
	UpdateFlowDefinition(ctx context.Context, id int64, patch model.FlowDefinitionPatch) (*model.FlowDefinition, error)
	FindFlowDefinitionByID(ctx context.Context, id int64) (*model.FlowDefinition, error)
	// FindFlowDefinitionByFlowDefID finds a flow definition by its scheduler identifier.
	FindFlowDefinitionByFlowDefID(ctx context.Context, flowDefID string) (*model.FlowDefinition, error)
	CountFlowDefinitions(ctx context.Context) (int64, error)
	// DeleteFlowDefinition removes an unreferenced flow definition.
	DeleteFlowDefinition(ctx context.Context, id int64) error
}

// FlowExecution defines operations for persisting and retrieving flow executions.
type FlowExecution interface {
	// CreateFlowExecution inserts exec after checking that its flow definition exists.
	CreateFlowExecution(ctx context.Context, exec *model.FlowExecution) (int64, error)
	UpdateFlowExecution(ctx context.Context, id int64, patch model.FlowExecutionPatch) (*model.FlowExecution, error)
	FindFlowExecutionByID(ctx context.Context, id int64) (*model.FlowExecution, error)
	FindFlowExecutionByFlowExecID(ctx context.Context, flowExecID string) (*model.FlowExecution, error)
	// FindFlowExecutionsByFlowDefinition lists the executions of a flow definition ordered by id.
	FindFlowExecutionsByFlowDefinition(ctx context.Context, flowDefinitionID int64) ([]*model.FlowExecution, error)
	CountFlowExecutions(ctx context.Context) (int64, error)
	DeleteFlowExecution(ctx context.Context, id int64) error
}
