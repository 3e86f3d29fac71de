// Package wizard implements the linear step state machine behind every intake
// form: Previous/Next navigation, the submit lifecycle (loading gate, complete,
// fail), the navigation controls derived from it, progress, the default
// required-field policy, and the line-item contract of the add-product
// sub-form.
//
// State is a value type; each transition returns a new State. Session wraps a
// State together with the template, the formdata snapshot and line items for
// callers (HTTP handlers, the terminal runner) that need a single owner with
// serialised access.
package wizard
