package components

import (
	"bytes"
	"fmt"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// NewDefaultRegistry returns a registry with a control for every supported
// field type. The single-line inputs share one template parameterised by
// the HTML input type.
func NewDefaultRegistry() *Registry {
	registry := New()

	for _, fieldType := range []model.FieldType{
		model.FieldTypeText,
		model.FieldTypeEmail,
		model.FieldTypeTel,
		model.FieldTypeNumber,
		model.FieldTypeDate,
	} {
		registry.MustRegister(fieldType, Descriptor{
			Renderer: templateComponentRenderer(TemplateInput),
		})
	}
	registry.MustRegister(model.FieldTypeTextarea, Descriptor{
		Renderer: templateComponentRenderer(TemplateTextarea),
	})
	registry.MustRegister(model.FieldTypeSelect, Descriptor{
		Renderer: templateComponentRenderer(TemplateSelect),
	})
	registry.MustRegister(model.FieldTypeCheckbox, Descriptor{
		Renderer: templateComponentRenderer(TemplateCheckbox),
	})

	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.FormField, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload := map[string]any{
			"field":              field,
			"input_type":         string(field.Type),
			"control_id":         data.ControlID,
			"value":              data.Value,
			"checked":            data.Checked,
			"invalid":            data.Invalid,
			"select_placeholder": data.SelectPlaceholder,
		}
		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
