package sql

import (
	"time"

	model "github.com/tigerroll/tunestore/pkg/tuning/core/domain/model"
	"github.com/tigerroll/tunestore/pkg/tuning/core/support/timestamp"
)

// --- Mapper functions ---

// Stored times are read back in UTC regardless of the driver's location handling.
func stamps(created, updated time.Time) model.Timestamps {
	return model.Timestamps{CreatedTs: timestamp.Normalize(created), UpdatedTs: timestamp.Normalize(updated)}
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat64(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func fromDomainFlowDefinition(d *model.FlowDefinition) *FlowDefinitionEntity {
	return &FlowDefinitionEntity{
		ID:         d.ID,
		FlowDefID:  d.FlowDefID,
		FlowDefURL: d.FlowDefURL,
		CreatedTs:  d.CreatedTs,
		UpdatedTs:  d.UpdatedTs,
	}
}

func toDomainFlowDefinition(e *FlowDefinitionEntity) *model.FlowDefinition {
	return &model.FlowDefinition{
		ID:         e.ID,
		FlowDefID:  e.FlowDefID,
		FlowDefURL: e.FlowDefURL,
		Timestamps: stamps(e.CreatedTs, e.UpdatedTs),
	}
}

func fromDomainFlowExecution(d *model.FlowExecution) *FlowExecutionEntity {
	return &FlowExecutionEntity{
		ID:               d.ID,
		FlowExecID:       d.FlowExecID,
		FlowExecURL:      d.FlowExecURL,
		FlowDefinitionID: d.FlowDefinitionID,
		CreatedTs:        d.CreatedTs,
		UpdatedTs:        d.UpdatedTs,
	}
}

func toDomainFlowExecution(e *FlowExecutionEntity) *model.FlowExecution {
	return &model.FlowExecution{
		ID:               e.ID,
		FlowExecID:       e.FlowExecID,
		FlowExecURL:      e.FlowExecURL,
		FlowDefinitionID: e.FlowDefinitionID,
		Timestamps:       stamps(e.CreatedTs, e.UpdatedTs),
	}
}

func fromDomainTuningAlgorithm(d *model.TuningAlgorithm) *TuningAlgorithmEntity {
	return &TuningAlgorithmEntity{
		ID:                      d.ID,
		JobType:                 string(d.JobType),
		OptimizationAlgo:        string(d.OptimizationAlgo),
		OptimizationAlgoVersion: d.OptimizationAlgoVersion,
		OptimizationMetric:      string(d.OptimizationMetric),
		CreatedTs:               d.CreatedTs,
		UpdatedTs:               d.UpdatedTs,
	}
}

func toDomainTuningAlgorithm(e *TuningAlgorithmEntity) *model.TuningAlgorithm {
	return &model.TuningAlgorithm{
		ID:                      e.ID,
		JobType:                 model.JobType(e.JobType),
		OptimizationAlgo:        model.OptimizationAlgo(e.OptimizationAlgo),
		OptimizationAlgoVersion: e.OptimizationAlgoVersion,
		OptimizationMetric:      model.OptimizationMetric(e.OptimizationMetric),
		Timestamps:              stamps(e.CreatedTs, e.UpdatedTs),
	}
}

func fromDomainTuningParameter(d *model.TuningParameter) *TuningParameterEntity {
	return &TuningParameterEntity{
		ID:                d.ID,
		ParamName:         d.ParamName,
		TuningAlgorithmID: d.TuningAlgorithmID,
		DefaultValue:      d.DefaultValue,
		MinValue:          d.MinValue,
		MaxValue:          d.MaxValue,
		StepSize:          d.StepSize,
		IsDerived:         d.IsDerived,
		CreatedTs:         d.CreatedTs,
		UpdatedTs:         d.UpdatedTs,
	}
}

func toDomainTuningParameter(e *TuningParameterEntity) *model.TuningParameter {
	return &model.TuningParameter{
		ID:                e.ID,
		ParamName:         e.ParamName,
		TuningAlgorithmID: e.TuningAlgorithmID,
		DefaultValue:      e.DefaultValue,
		MinValue:          e.MinValue,
		MaxValue:          e.MaxValue,
		StepSize:          e.StepSize,
		IsDerived:         e.IsDerived,
		Timestamps:        stamps(e.CreatedTs, e.UpdatedTs),
	}
}

func fromDomainJobSuggestedParamSet(d *model.JobSuggestedParamSet) *JobSuggestedParamSetEntity {
	return &JobSuggestedParamSetEntity{
		ID:                     d.ID,
		TuningAlgorithmID:      d.TuningAlgorithmID,
		FlowExecutionID:        copyInt64(d.FlowExecutionID),
		ParamSetState:          string(d.ParamSetState),
		IsParamSetDefault:      d.IsParamSetDefault,
		IsParamSetBest:         d.IsParamSetBest,
		AreConstraintsViolated: d.AreConstraintsViolated,
		Fitness:                copyFloat64(d.Fitness),
		CreatedTs:              d.CreatedTs,
		UpdatedTs:              d.UpdatedTs,
	}
}

func toDomainJobSuggestedParamSet(e *JobSuggestedParamSetEntity) *model.JobSuggestedParamSet {
	return &model.JobSuggestedParamSet{
		ID:                     e.ID,
		TuningAlgorithmID:      e.TuningAlgorithmID,
		FlowExecutionID:        copyInt64(e.FlowExecutionID),
		ParamSetState:          model.ParamSetState(e.ParamSetState),
		IsParamSetDefault:      e.IsParamSetDefault,
		IsParamSetBest:         e.IsParamSetBest,
		AreConstraintsViolated: e.AreConstraintsViolated,
		Fitness:                copyFloat64(e.Fitness),
		Timestamps:             stamps(e.CreatedTs, e.UpdatedTs),
	}
}

func fromDomainJobSuggestedParamValue(d *model.JobSuggestedParamValue) *JobSuggestedParamValueEntity {
	return &JobSuggestedParamValueEntity{
		ID:                     d.ID,
		JobSuggestedParamSetID: d.JobSuggestedParamSetID,
		TuningParameterID:      d.TuningParameterID,
		ParamValue:             d.ParamValue,
		CreatedTs:              d.CreatedTs,
		UpdatedTs:              d.UpdatedTs,
	}
}

func toDomainJobSuggestedParamValue(e *JobSuggestedParamValueEntity) *model.JobSuggestedParamValue {
	return &model.JobSuggestedParamValue{
		ID:                     e.ID,
		JobSuggestedParamSetID: e.JobSuggestedParamSetID,
		TuningParameterID:      e.TuningParameterID,
		ParamValue:             e.ParamValue,
		Timestamps:             stamps(e.CreatedTs, e.UpdatedTs),
	}
}
