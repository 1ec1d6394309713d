package model

// FlowDefinition is an externally defined unit of work, such as a scheduler
// workflow, tracked by its external identifier and URL.
type FlowDefinition struct {
	ID int64
	// FlowDefID is the identifier of the flow in the source scheduler. Unique.
	FlowDefID string
	// FlowDefURL links to the flow in the source scheduler.
	FlowDefURL string
	Timestamps
}

// NewFlowDefinition creates a FlowDefinition after validating its required fields.
func NewFlowDefinition(flowDefID, flowDefURL string) (*FlowDefinition, error) {
	f := &FlowDefinition{FlowDefID: flowDefID, FlowDefURL: flowDefURL}
	if err := f.validate("model.NewFlowDefinition"); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the required fields.
func (f *FlowDefinition) Validate() error {
	return f.validate("FlowDefinition.Validate")
}

func (f *FlowDefinition) validate(op string) error {
	v := newValidator(op)
	v.required("flowDefId", f.FlowDefID)
	v.required("flowDefUrl", f.FlowDefURL)
	return v.err()
}

// FlowDefinitionPatch lists the mutable fields of a FlowDefinition. Nil fields are left unchanged.
type FlowDefinitionPatch struct {
	FlowDefID  *string
	FlowDefURL *string
}

// Apply copies the set fields of p onto f.
func (p FlowDefinitionPatch) Apply(f *FlowDefinition) {
	if p.FlowDefID != nil {
		f.FlowDefID = *p.FlowDefID
	}
	if p.FlowDefURL != nil {
		f.FlowDefURL = *p.FlowDefURL
	}
}
