package wizard

import (
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// Validator is the caller-supplied policy run before leaving a step. It
// returns a *ValidationError (or any error) to keep the wizard in place.
type Validator func(step model.Step, data formdata.Data) error

// RequiredFields is the default policy: every required field of the step must
// hold a non-blank value.
func RequiredFields(step model.Step, data formdata.Data) error {
	verr := &ValidationError{}
	for _, field := range step.Fields() {
		if !field.Required {
			continue
		}
		if data.Blank(field.ID) {
			verr.Add(field.ID, requiredMessage(field))
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Chain runs validators in order, merging ValidationErrors and stopping on the
// first non-validation error.
func Chain(validators ...Validator) Validator {
	return func(step model.Step, data formdata.Data) error {
		merged := &ValidationError{}
		for _, validate := range validators {
			if validate == nil {
				continue
			}
			err := validate(step, data)
			if err == nil {
				continue
			}
			verr, ok := AsValidationError(err)
			if !ok {
				return err
			}
			for id, messages := range verr.Fields {
				for _, msg := range messages {
					merged.Add(id, msg)
				}
			}
			merged.Form = append(merged.Form, verr.Form...)
		}
		if merged.Empty() {
			return nil
		}
		return merged
	}
}

func requiredMessage(field model.FormField) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	return label + " is required"
}
