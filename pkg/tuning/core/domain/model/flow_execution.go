package model

// FlowExecution is one run of a FlowDefinition.
type FlowExecution struct {
	ID int64
	// FlowExecID is the identifier of the run in the source scheduler. Unique.
	FlowExecID  string
	FlowExecURL string
	// FlowDefinitionID references the owning FlowDefinition.
	FlowDefinitionID int64
	Timestamps
}

// NewFlowExecution creates a FlowExecution after validating its required fields.
func NewFlowExecution(flowExecID, flowExecURL string, flowDefinitionID int64) (*FlowExecution, error) {
	e := &FlowExecution{FlowExecID: flowExecID, FlowExecURL: flowExecURL, FlowDefinitionID: flowDefinitionID}
	if err := e.validate("model.NewFlowExecution"); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the required fields.
func (e *FlowExecution) Validate() error {
	return e.validate("FlowExecution.Validate")
}

func (e *FlowExecution) validate(op string) error {
	v := newValidator(op)
	v.required("flowExecId", e.FlowExecID)
	v.required("flowExecUrl", e.FlowExecURL)
	v.reference("flowDefinition", e.FlowDefinitionID)
	return v.err()
}

// FlowExecutionPatch lists the mutable fields of a FlowExecution.
type FlowExecutionPatch struct {
	FlowExecID       *string
	FlowExecURL      *string
	FlowDefinitionID *int64
}

// Apply copies the set fields of p onto e.
func (p FlowExecutionPatch) Apply(e *FlowExecution) {
	if p.FlowExecID != nil {
		e.FlowExecID = *p.FlowExecID
	}
	if p.FlowExecURL != nil {
		e.FlowExecURL = *p.FlowExecURL
	}
	if p.FlowDefinitionID != nil {
		e.FlowDefinitionID = *p.FlowDefinitionID
	}
}
