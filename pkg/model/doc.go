// Package model defines the declarative wizard shape consumed by the wizard
// state machine and the renderers. A FormTemplate is an ordered list of steps;
// each step groups one or more titled sections of fields. Templates are
// immutable once loaded: runtime state (field values, line items, the current
// step) lives in pkg/formdata and pkg/wizard, never on the template.
//
// Field types are a closed set (see FieldType). Validate rejects templates that
// declare unknown types, duplicate field ids, or select fields without options,
// so renderers can treat an unknown type as a programming error.
package model
