package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAtFirstStep is returned by Previous on step 1.
	ErrAtFirstStep = errors.New("wizard: already at first step")
	// ErrFinalStep is returned by Next on the final step; use submit instead.
	ErrFinalStep = errors.New("wizard: final step reached, submit instead")
	// ErrNotFinalStep is returned when submitting before the final step.
	ErrNotFinalStep = errors.New("wizard: submit is only allowed on the final step")
	// ErrBusy is returned for any transition while a submission is in flight.
	ErrBusy = errors.New("wizard: submission in progress")
	// ErrCompleted is returned for transitions after a successful submission.
	ErrCompleted = errors.New("wizard: already submitted")
	// ErrLineItemsRequired blocks leaving a products step without line items.
	ErrLineItemsRequired = errors.New("wizard: at least one line item is required")
	// ErrUnknownField rejects values for fields outside the visited steps.
	ErrUnknownField = errors.New("wizard: field is not part of a visited step")
	// ErrInvalidSteps rejects states with no steps.
	ErrInvalidSteps = errors.New("wizard: total steps must be positive")
)

// ValidationError carries field-level messages keyed by field id plus
// form-level messages.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "wizard: validation failed"
	}
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids)+len(e.Form))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, strings.Join(e.Fields[id], "; ")))
	}
	parts = append(parts, e.Form...)
	return "wizard: validation failed: " + strings.Join(parts, ", ")
}

// Add records a message for field id.
func (e *ValidationError) Add(id, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[id] = append(e.Fields[id], message)
}

// Empty reports whether no messages were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// AsValidationError unwraps err into a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
