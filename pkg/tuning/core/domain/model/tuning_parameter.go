package model

// TuningParameter is the definition of one parameter a TuningAlgorithm tunes,
// together with its search space.
type TuningParameter struct {
	ID                int64
	ParamName         string
	TuningAlgorithmID int64
	DefaultValue      float64
	MinValue          float64
	MaxValue          float64
	StepSize          float64
	// IsDerived marks parameters computed from other parameters rather than searched.
	IsDerived bool
	Timestamps
}

// NewTuningParameter creates a TuningParameter after validating it.
func NewTuningParameter(tuningAlgorithmID int64, paramName string, defaultValue, minValue, maxValue, stepSize float64) (*TuningParameter, error) {
	p := &TuningParameter{
		ParamName:         paramName,
		TuningAlgorithmID: tuningAlgorithmID,
		DefaultValue:      defaultValue,
		MinValue:          minValue,
		MaxValue:          maxValue,
		StepSize:          stepSize,
	}
	if err := p.validate("model.NewTuningParameter"); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks required fields and the search-space bounds.
func (p *TuningParameter) Validate() error {
	return p.validate("TuningParameter.Validate")
}

func (p *TuningParameter) validate(op string) error {
	v := newValidator(op)
	v.required("paramName", p.ParamName)
	v.reference("tuningAlgorithm", p.TuningAlgorithmID)
	v.finite("defaultValue", p.DefaultValue)
	v.finite("minValue", p.MinValue)
	v.finite("maxValue", p.MaxValue)
	v.finite("stepSize", p.StepSize)
	v.check(!(p.MinValue > p.MaxValue), "minValue", "minValue must not exceed maxValue")
	v.check(!(p.StepSize < 0), "stepSize", "stepSize must not be negative")
	return v.err()
}

// TuningParameterPatch lists the mutable fields of a TuningParameter.
type TuningParameterPatch struct {
	ParamName         *string
	TuningAlgorithmID *int64
	DefaultValue      *float64
	MinValue          *float64
	MaxValue          *float64
	StepSize          *float64
	IsDerived         *bool
}

// Apply copies the set fields of p onto t.
func (p TuningParameterPatch) Apply(t *TuningParameter) {
	if p.ParamName != nil {
		t.ParamName = *p.ParamName
	}
	if p.TuningAlgorithmID != nil {
		t.TuningAlgorithmID = *p.TuningAlgorithmID
	}
	if p.DefaultValue != nil {
		t.DefaultValue = *p.DefaultValue
	}
	if p.MinValue != nil {
		t.MinValue = *p.MinValue
	}
	if p.MaxValue != nil {
		t.MaxValue = *p.MaxValue
	}
	if p.StepSize != nil {
		t.StepSize = *p.StepSize
	}
	if p.IsDerived != nil {
		t.IsDerived = *p.IsDerived
	}
}
