package model

import "github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"

// ParamSetState is the recorded lifecycle label of a JobSuggestedParamSet.
// The store keeps the label only; it does not enforce transitions.
type ParamSetState string

const (
	ParamSetStateCreated         ParamSetState = "CREATED"
	ParamSetStateSent            ParamSetState = "SENT"
	ParamSetStateExecuted        ParamSetState = "EXECUTED"
	ParamSetStateFitnessComputed ParamSetState = "FITNESS_COMPUTED"
	ParamSetStateDiscarded       ParamSetState = "DISCARDED"
)

// IsValid reports whether s is a known state.
func (s ParamSetState) IsValid() bool {
	switch s {
	case ParamSetStateCreated, ParamSetStateSent, ParamSetStateExecuted,
		ParamSetStateFitnessComputed, ParamSetStateDiscarded:
		return true
	}
	return false
}

// ParseParamSetState converts s to a ParamSetState.
func ParseParamSetState(s string) (ParamSetState, error) {
	st := ParamSetState(s)
	if !st.IsValid() {
		return "", exception.NewInvalidEnumValue("model.ParseParamSetState", "paramSetState", s)
	}
	return st, nil
}

// JobSuggestedParamSet groups the parameter values suggested together for one
// tuning run, optionally attached to the FlowExecution that used them.
type JobSuggestedParamSet struct {
	ID                int64
	TuningAlgorithmID int64
	// FlowExecutionID is nil until the set is attached to a run.
	FlowExecutionID        *int64
	ParamSetState          ParamSetState
	IsParamSetDefault      bool
	IsParamSetBest         bool
	AreConstraintsViolated bool
	// Fitness is nil until computed.
	Fitness *float64
	Timestamps
}

// NewJobSuggestedParamSet creates a parameter set in the given state.
func NewJobSuggestedParamSet(tuningAlgorithmID int64, state string) (*JobSuggestedParamSet, error) {
	s := &JobSuggestedParamSet{TuningAlgorithmID: tuningAlgorithmID, ParamSetState: ParamSetState(state)}
	if err := s.validate("model.NewJobSuggestedParamSet"); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks references, state and fitness.
func (s *JobSuggestedParamSet) Validate() error {
	return s.validate("JobSuggestedParamSet.Validate")
}

func (s *JobSuggestedParamSet) validate(op string) error {
	v := newValidator(op)
	v.reference("tuningAlgorithm", s.TuningAlgorithmID)
	v.optionalReference("flowExecution", s.FlowExecutionID)
	v.enum(s.ParamSetState.IsValid(), "paramSetState", string(s.ParamSetState))
	if s.Fitness != nil {
		v.finite("fitness", *s.Fitness)
	}
	return v.err()
}

// JobSuggestedParamSetPatch lists the mutable fields of a JobSuggestedParamSet.
// Clear* flags reset the optional fields to nil and take precedence over a set value.
type JobSuggestedParamSetPatch struct {
	TuningAlgorithmID      *int64
	FlowExecutionID        *int64
	ClearFlowExecution     bool
	ParamSetState          *ParamSetState
	IsParamSetDefault      *bool
	IsParamSetBest         *bool
	AreConstraintsViolated *bool
	Fitness                *float64
	ClearFitness           bool
}

// Apply copies the set fields of p onto s.
func (p JobSuggestedParamSetPatch) Apply(s *JobSuggestedParamSet) {
	if p.TuningAlgorithmID != nil {
		s.TuningAlgorithmID = *p.TuningAlgorithmID
	}
	switch {
	case p.ClearFlowExecution:
		s.FlowExecutionID = nil
	case p.FlowExecutionID != nil:
		id := *p.FlowExecutionID
		s.FlowExecutionID = &id
	}
	if p.ParamSetState != nil {
		s.ParamSetState = *p.ParamSetState
	}
	if p.IsParamSetDefault != nil {
		s.IsParamSetDefault = *p.IsParamSetDefault
	}
	if p.IsParamSetBest != nil {
		s.IsParamSetBest = *p.IsParamSetBest
	}
	if p.AreConstraintsViolated != nil {
		s.AreConstraintsViolated = *p.AreConstraintsViolated
	}
	switch {
	case p.ClearFitness:
		s.Fitness = nil
	case p.Fitness != nil:
		f := *p.Fitness
		s.Fitness = &f
	}
}
