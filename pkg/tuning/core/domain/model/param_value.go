package model

// JobSuggestedParamValue is one parameter's proposed value within a JobSuggestedParamSet.
// The value range is the caller's concern; the store only requires a finite number.
type JobSuggestedParamValue struct {
	ID                     int64
	JobSuggestedParamSetID int64
	TuningParameterID      int64
	ParamValue             float64
	Timestamps
}

// NewJobSuggestedParamValue creates a suggested value after validating it.
func NewJobSuggestedParamValue(paramSetID, tuningParameterID int64, value float64) (*JobSuggestedParamValue, error) {
	pv := &JobSuggestedParamValue{
		JobSuggestedParamSetID: paramSetID,
		TuningParameterID:      tuningParameterID,
		ParamValue:             value,
	}
	if err := pv.validate("model.NewJobSuggestedParamValue"); err != nil {
		return nil, err
	}
	return pv, nil
}

// Validate checks both references and the value.
func (pv *JobSuggestedParamValue) Validate() error {
	return pv.validate("JobSuggestedParamValue.Validate")
}

func (pv *JobSuggestedParamValue) validate(op string) error {
	v := newValidator(op)
	v.reference("jobSuggestedParamSet", pv.JobSuggestedParamSetID)
	v.reference("tuningParameter", pv.TuningParameterID)
	v.finite("paramValue", pv.ParamValue)
	return v.err()
}

// JobSuggestedParamValuePatch lists the mutable fields of a JobSuggestedParamValue.
type JobSuggestedParamValuePatch struct {
	JobSuggestedParamSetID *int64
	TuningParameterID      *int64
	ParamValue             *float64
}

// Apply copies the set fields of p onto pv.
func (p JobSuggestedParamValuePatch) Apply(pv *JobSuggestedParamValue) {
	if p.JobSuggestedParamSetID != nil {
		pv.JobSuggestedParamSetID = *p.JobSuggestedParamSetID
	}
	if p.TuningParameterID != nil {
		pv.TuningParameterID = *p.TuningParameterID
	}
	if p.ParamValue != nil {
		pv.ParamValue = *p.ParamValue
	}
}
