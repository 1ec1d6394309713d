package sql

import (
	"time"
)

// Table names.
const (
	flowDefinitionTable         = "flow_definition"
	flowExecutionTable          = "flow_execution"
	tuningAlgorithmTable        = "tuning_algorithm"
	tuningParameterTable        = "tuning_parameter"
	jobSuggestedParamSetTable   = "job_suggested_param_set"
	jobSuggestedParamValueTable = "job_suggested_param_value"
)

// FlowDefinitionEntity is a schema model used for persistence.
type FlowDefinitionEntity struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FlowDefID  string    `gorm:"column:flow_def_id;not null"`
	FlowDefURL string    `gorm:"column:flow_def_url;not null"`
	CreatedTs  time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs  time.Time `gorm:"column:updated_ts;not null"`
}

func (FlowDefinitionEntity) TableName() string {
	return flowDefinitionTable
}

func (e FlowDefinitionEntity) PrimaryKey() int64 {
	return e.ID
}

// FlowExecutionEntity is a schema model used for persistence.
type FlowExecutionEntity struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FlowExecID       string    `gorm:"column:flow_exec_id;not null"`
	FlowExecURL      string    `gorm:"column:flow_exec_url;not null"`
	FlowDefinitionID int64     `gorm:"column:flow_definition_id;not null"`
	CreatedTs        time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs        time.Time `gorm:"column:updated_ts;not null"`
}

func (FlowExecutionEntity) TableName() string {
	return flowExecutionTable
}

func (e FlowExecutionEntity) PrimaryKey() int64 {
	return e.ID
}

// TuningAlgorithmEntity is a schema model used for persistence.
type TuningAlgorithmEntity struct {
	ID                      int64     `gorm:"column:id;primaryKey;autoIncrement"`
	JobType                 string    `gorm:"column:job_type;not null"`
	OptimizationAlgo        string    `gorm:"column:optimization_algo;not null"`
	OptimizationAlgoVersion int       `gorm:"column:optimization_algo_version;not null"`
	OptimizationMetric      string    `gorm:"column:optimization_metric;not null"`
	CreatedTs               time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs               time.Time `gorm:"column:updated_ts;not null"`
}

func (TuningAlgorithmEntity) TableName() string {
	return tuningAlgorithmTable
}

func (e TuningAlgorithmEntity) PrimaryKey() int64 {
	return e.ID
}

// TuningParameterEntity is a schema model used for persistence.
type TuningParameterEntity struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ParamName         string    `gorm:"column:param_name;not null"`
	TuningAlgorithmID int64     `gorm:"column:tuning_algorithm_id;not null"`
	DefaultValue      float64   `gorm:"column:default_value;not null"`
	MinValue          float64   `gorm:"column:min_value;not null"`
	MaxValue          float64   `gorm:"column:max_value;not null"`
	StepSize          float64   `gorm:"column:step_size;not null"`
	IsDerived         bool      `gorm:"column:is_derived;not null"`
	CreatedTs         time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs         time.Time `gorm:"column:updated_ts;not null"`
}

func (TuningParameterEntity) TableName() string {
	return tuningParameterTable
}

func (e TuningParameterEntity) PrimaryKey() int64 {
	return e.ID
}

// JobSuggestedParamSetEntity is a schema model used for persistence.
type JobSuggestedParamSetEntity struct {
	ID                     int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TuningAlgorithmID      int64     `gorm:"column:tuning_algorithm_id;not null"`
	FlowExecutionID        *int64    `gorm:"column:flow_execution_id"`
	ParamSetState          string    `gorm:"column:param_set_state;not null"`
	IsParamSetDefault      bool      `gorm:"column:is_param_set_default;not null"`
	IsParamSetBest         bool      `gorm:"column:is_param_set_best;not null"`
	AreConstraintsViolated bool      `gorm:"column:are_constraints_violated;not null"`
	Fitness                *float64  `gorm:"column:fitness"`
	CreatedTs              time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs              time.Time `gorm:"column:updated_ts;not null"`
}

func (JobSuggestedParamSetEntity) TableName() string {
	return jobSuggestedParamSetTable
}

func (e JobSuggestedParamSetEntity) PrimaryKey() int64 {
	return e.ID
}

// JobSuggestedParamValueEntity is a schema model used for persistence.
type JobSuggestedParamValueEntity struct {
	ID                     int64     `gorm:"column:id;primaryKey;autoIncrement"`
	JobSuggestedParamSetID int64     `gorm:"column:job_suggested_param_set_id;not null"`
	TuningParameterID      int64     `gorm:"column:tuning_parameter_id;not null"`
	ParamValue             float64   `gorm:"column:param_value;not null"`
	CreatedTs              time.Time `gorm:"column:created_ts;not null"`
	UpdatedTs              time.Time `gorm:"column:updated_ts;not null"`
}

func (JobSuggestedParamValueEntity) TableName() string {
	return jobSuggestedParamValueTable
}

func (e JobSuggestedParamValueEntity) PrimaryKey() int64 {
	return e.ID
}
