package model

import (
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tigerroll/tunestore/pkg/tuning/support/util/exception"
)

// validator collects field violations of one entity. The resulting error keeps
// the kind and field of the first violation and lists all of them.
type validator struct {
	op    string
	first *exception.StoreError
	all   *multierror.Error
}

func newValidator(op string) *validator {
	return &validator{op: op}
}

func (v *validator) add(err *exception.StoreError) {
	if v.first == nil {
		v.first = err
	}
	v.all = multierror.Append(v.all, err)
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(exception.NewValidationError(v.op, field, "required field is empty"))
	}
}

func (v *validator) reference(field string, id int64) {
	if id <= 0 {
		v.add(exception.NewValidationError(v.op, field, "required reference is not set"))
	}
}

func (v *validator) optionalReference(field string, id *int64) {
	if id != nil && *id <= 0 {
		v.add(exception.NewValidationError(v.op, field, "reference must be a positive id"))
	}
}

func (v *validator) finite(field string, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		v.add(exception.NewValidationError(v.op, field, "value must be a finite number"))
	}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.add(exception.NewValidationError(v.op, field, message))
	}
}

func (v *validator) enum(ok bool, field, value string) {
	if !ok {
		v.add(exception.NewInvalidEnumValue(v.op, field, value))
	}
}

func (v *validator) err() error {
	if v.first == nil {
		return nil
	}
	if len(v.all.Errors) == 1 {
		return v.first
	}
	v.all.ErrorFormat = func(errs []error) string {
		parts := make([]string, len(errs))
		for i, e := range errs {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	return &exception.StoreError{
		Op:      v.first.Op,
		Kind:    v.first.Kind,
		Field:   v.first.Field,
		Message: v.first.Message,
		Err:     v.all,
	}
}
