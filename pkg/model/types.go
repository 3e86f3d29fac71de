package model

import "strings"

// FieldType enumerates the controls a wizard field can render as.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
)

// KnownFieldTypes lists every supported FieldType in a stable order.
func KnownFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeTel,
		FieldTypeNumber,
		FieldTypeDate,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
	}
}

// Known reports whether t is one of the supported field types.
func (t FieldType) Known() bool {
	for _, known := range KnownFieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Trailing slot identifiers a step can request after its sections.
const (
	SlotAddProduct = "add-product"
)

// Well-known field ids used by the add-product sub-form.
const (
	FieldProduct  = "product"
	FieldQuantity = "quantity"
)

const (
	DefaultSubmitLabel   = "Submit Form"
	DefaultContinueLabel = "Continue"
	DefaultBackLabel     = "Back"
)

// Option is a single label/value pair offered by a select field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FormField declares one input. Fields are never mutated at runtime.
type FormField struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// FormSection groups fields under a title. One or more sections make a step.
type FormSection struct {
	ID     string      `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Fields []FormField `json:"fields" yaml:"fields"`
}

// Step is one screen of the wizard.
type Step struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []FormSection `json:"sections" yaml:"sections"`
	// RequiresLineItems blocks the primary control until at least one line
	// item has been added (the order products step).
	RequiresLineItems bool `json:"requiresLineItems,omitempty" yaml:"requiresLineItems,omitempty"`
	// Trailing names slot content rendered after the sections (SlotAddProduct).
	// The section whose id equals the slot name backs the slot's fields.
	Trailing string `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

// SigningConfig selects the external document-signing URL opened after a
// successful submission. Field names the formData key whose value picks an
// entry in URLs; Default is used when the value has no entry.
type SigningConfig struct {
	Field   string            `json:"field,omitempty" yaml:"field,omitempty"`
	URLs    map[string]string `json:"urls,omitempty" yaml:"urls,omitempty"`
	Default string            `json:"default,omitempty" yaml:"default,omitempty"`
}

// FormTemplate defines the wizard shape. The number of steps is totalSteps.
type FormTemplate struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []Step         `json:"steps" yaml:"steps"`
	SubmitLabel string         `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Signing     *SigningConfig `json:"signing,omitempty" yaml:"signing,omitempty"`
}

// TotalSteps returns the number of wizard steps.
func (t FormTemplate) TotalSteps() int {
	return len(t.Steps)
}

// Step returns the 1-based step n.
func (t FormTemplate) Step(n int) (Step, bool) {
	if n < 1 || n > len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[n-1], true
}

// TerminalLabel is the primary control label shown on the final step.
func (t FormTemplate) TerminalLabel() string {
	if label := strings.TrimSpace(t.SubmitLabel); label != "" {
		return label
	}
	return DefaultSubmitLabel
}

// HasLineItems reports whether any step collects line items.
func (t FormTemplate) HasLineItems() bool {
	for _, step := range t.Steps {
		if step.RequiresLineItems || step.Trailing == SlotAddProduct {
			return true
		}
	}
	return false
}

// Fields returns the fields of step n in section order.
func (t FormTemplate) Fields(n int) []FormField {
	step, ok := t.Step(n)
	if !ok {
		return nil
	}
	return step.Fields()
}

// FieldsThrough returns every field declared in steps 1..n.
func (t FormTemplate) FieldsThrough(n int) []FormField {
	var out []FormField
	for i := 1; i <= n && i <= len(t.Steps); i++ {
		out = append(out, t.Fields(i)...)
	}
	return out
}

// FindField locates a field by id and reports the 1-based step declaring it.
func (t FormTemplate) FindField(id string) (FormField, int, bool) {
	for i, step := range t.Steps {
		for _, field := range step.Fields() {
			if field.ID == id {
				return field, i + 1, true
			}
		}
	}
	return FormField{}, 0, false
}

// Fields flattens the step's sections.
func (s Step) Fields() []FormField {
	var out []FormField
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Section returns the section with the given id.
func (s Step) Section(id string) (FormSection, bool) {
	for _, section := range s.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return FormSection{}, false
}

// ContentSections returns the sections rendered in the step body, excluding
// the section backing the trailing slot.
func (s Step) ContentSections() []FormSection {
	if s.Trailing == "" {
		return s.Sections
	}
	out := make([]FormSection, 0, len(s.Sections))
	for _, section := range s.Sections {
		if section.ID == s.Trailing {
			continue
		}
		out = append(out, section)
	}
	return out
}

// Clone returns a deep copy so decorators can mutate freely.
func (t FormTemplate) Clone() FormTemplate {
	out := t
	out.Steps = make([]Step, len(t.Steps))
	for i, step := range t.Steps {
		cloned := step
		cloned.Sections = make([]FormSection, len(step.Sections))
		for j, section := range step.Sections {
			cs := section
			cs.Fields = make([]FormField, len(section.Fields))
			for k, field := range section.Fields {
				cf := field
				cf.Options = append([]Option(nil), field.Options...)
				cs.Fields[k] = cf
			}
			cloned.Sections[j] = cs
		}
		out.Steps[i] = cloned
	}
	if t.Signing != nil {
		signing := *t.Signing
		if len(t.Signing.URLs) > 0 {
			signing.URLs = make(map[string]string, len(t.Signing.URLs))
			for k, v := range t.Signing.URLs {
				signing.URLs[k] = v
			}
		}
		out.Signing = &signing
	}
	return out
}

// LineItem is one product/quantity entry appended to an order.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
