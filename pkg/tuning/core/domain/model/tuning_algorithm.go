package model

import "github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"

// JobType is the kind of job a TuningAlgorithm targets.
type JobType string

const (
	JobTypePig   JobType = "PIG"
	JobTypeHive  JobType = "HIVE"
	JobTypeSpark JobType = "SPARK"
)

// JobTypes lists the closed set of job types.
var JobTypes = []JobType{JobTypePig, JobTypeHive, JobTypeSpark}

// IsValid reports whether t is a member of JobTypes.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypePig, JobTypeHive, JobTypeSpark:
		return true
	}
	return false
}

// OptimizationAlgo is the optimization method a suggestion engine runs.
type OptimizationAlgo string

const (
	// OptimizationAlgoPSO is particle swarm optimization.
	OptimizationAlgoPSO OptimizationAlgo = "PSO"
)

// IsValid reports whether a is a known algorithm.
func (a OptimizationAlgo) IsValid() bool {
	return a == OptimizationAlgoPSO
}

// OptimizationMetric is the quantity the optimizer minimizes.
type OptimizationMetric string

const (
	OptimizationMetricResource      OptimizationMetric = "RESOURCE"
	OptimizationMetricExecutionTime OptimizationMetric = "EXECUTION_TIME"
)

// IsValid reports whether m is a known metric.
func (m OptimizationMetric) IsValid() bool {
	return m == OptimizationMetricResource || m == OptimizationMetricExecutionTime
}

// ParseJobType converts s to a JobType. Matching is exact.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	if !t.IsValid() {
		return "", exception.NewInvalidEnumValue("model.ParseJobType", "jobType", s)
	}
	return t, nil
}

// ParseOptimizationAlgo converts s to an OptimizationAlgo.
func ParseOptimizationAlgo(s string) (OptimizationAlgo, error) {
	a := OptimizationAlgo(s)
	if !a.IsValid() {
		return "", exception.NewInvalidEnumValue("model.ParseOptimizationAlgo", "optimizationAlgo", s)
	}
	return a, nil
}

// ParseOptimizationMetric converts s to an OptimizationMetric.
func ParseOptimizationMetric(s string) (OptimizationMetric, error) {
	m := OptimizationMetric(s)
	if !m.IsValid() {
		return "", exception.NewInvalidEnumValue("model.ParseOptimizationMetric", "optimizationMetric", s)
	}
	return m, nil
}

// TuningAlgorithm describes which optimization method, job type and metric a
// suggestion engine targets.
type TuningAlgorithm struct {
	ID                      int64
	JobType                 JobType
	OptimizationAlgo        OptimizationAlgo
	OptimizationAlgoVersion int
	OptimizationMetric      OptimizationMetric
	Timestamps
}

// NewTuningAlgorithm parses the enumerated fields and creates a TuningAlgorithm.
func NewTuningAlgorithm(jobType, optimizationAlgo string, version int, metric string) (*TuningAlgorithm, error) {
	a := &TuningAlgorithm{
		JobType:                 JobType(jobType),
		OptimizationAlgo:        OptimizationAlgo(optimizationAlgo),
		OptimizationAlgoVersion: version,
		OptimizationMetric:      OptimizationMetric(metric),
	}
	if err := a.validate("model.NewTuningAlgorithm"); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the enumerations and the version.
func (a *TuningAlgorithm) Validate() error {
	return a.validate("TuningAlgorithm.Validate")
}

func (a *TuningAlgorithm) validate(op string) error {
	v := newValidator(op)
	v.enum(a.JobType.IsValid(), "jobType", string(a.JobType))
	v.enum(a.OptimizationAlgo.IsValid(), "optimizationAlgo", string(a.OptimizationAlgo))
	v.check(a.OptimizationAlgoVersion >= 0, "optimizationAlgoVersion", "version must not be negative")
	v.enum(a.OptimizationMetric.IsValid(), "optimizationMetric", string(a.OptimizationMetric))
	return v.err()
}

// TuningAlgorithmPatch lists the mutable fields of a TuningAlgorithm.
type TuningAlgorithmPatch struct {
	JobType                 *JobType
	OptimizationAlgo        *OptimizationAlgo
	OptimizationAlgoVersion *int
	OptimizationMetric      *OptimizationMetric
}

// Apply copies the set fields of p onto a.
func (p TuningAlgorithmPatch) Apply(a *TuningAlgorithm) {
	if p.JobType != nil {
		a.JobType = *p.JobType
	}
	if p.OptimizationAlgo != nil {
		a.OptimizationAlgo = *p.OptimizationAlgo
	}
	if p.OptimizationAlgoVersion != nil {
		a.OptimizationAlgoVersion = *p.OptimizationAlgoVersion
	}
	if p.OptimizationMetric != nil {
		a.OptimizationMetric = *p.OptimizationMetric
	}
}
