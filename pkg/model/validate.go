package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errTemplateIDMissing = errors.New("model: template id is required")
	errTemplateNoSteps   = errors.New("model: template requires at least one step")
)

// Validate checks the structural invariants of a template: unique field ids,
// known field types, select options, and at least one section per step.
func (t FormTemplate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errTemplateIDMissing
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("%w (template %q)", errTemplateNoSteps, t.ID)
	}

	seen := make(map[string]int)
	for i, step := range t.Steps {
		stepNo := i + 1
		if len(step.Sections) == 0 {
			return fmt.Errorf("model: template %q step %d has no sections", t.ID, stepNo)
		}
		if step.Trailing != "" && step.Trailing != SlotAddProduct {
			return fmt.Errorf("model: template %q step %d: unknown trailing slot %q", t.ID, stepNo, step.Trailing)
		}
		if step.Trailing == SlotAddProduct {
			if _, ok := step.Section(SlotAddProduct); !ok {
				return fmt.Errorf("model: template %q step %d: add-product slot requires a section with id %q", t.ID, stepNo, SlotAddProduct)
			}
		}
		for _, section := range step.Sections {
			for _, field := range section.Fields {
				if err := validateField(field); err != nil {
					return fmt.Errorf("model: template %q step %d: %w", t.ID, stepNo, err)
				}
				if prev, dup := seen[field.ID]; dup {
					return fmt.Errorf("model: template %q field %q declared in steps %d and %d", t.ID, field.ID, prev, stepNo)
				}
				seen[field.ID] = stepNo
			}
		}
	}

	if t.Signing != nil && strings.TrimSpace(t.Signing.Field) != "" {
		if _, ok := seen[t.Signing.Field]; !ok {
			return fmt.Errorf("model: template %q signing field %q is not declared", t.ID, t.Signing.Field)
		}
	}
	return nil
}

func validateField(field FormField) error {
	if strings.TrimSpace(field.ID) == "" {
		return errors.New("field id is required")
	}
	if !field.Type.Known() {
		return fmt.Errorf("field %q: unsupported type %q", field.ID, field.Type)
	}
	if field.Type == FieldTypeSelect && len(field.Options) == 0 && field.ID != FieldProduct {
		return fmt.Errorf("field %q: select requires options", field.ID)
	}
	return nil
}
