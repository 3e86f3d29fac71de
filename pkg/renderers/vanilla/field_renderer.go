package vanilla

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render/template"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla/components"
)

// ErrUnsupportedFieldType is returned when no control is registered for a
// field's type.
var ErrUnsupportedFieldType = errors.New("vanilla: unsupported field type")

const (
	chromeFieldTemplate      = "templates/components/chrome/field.tmpl"
	chromeSectionTemplate    = "templates/components/chrome/section.tmpl"
	chromeProgressTemplate   = "templates/components/chrome/progress.tmpl"
	chromeAddProductTemplate = "templates/components/chrome/add_product.tmpl"
	chromeLineItemsTemplate  = "templates/components/chrome/line_items.tmpl"
	chromeFooterTemplate     = "templates/components/chrome/footer.tmpl"
)

// componentRenderer dispatches fields to the registry and wraps each control
// with its label, description and errors. It records which field types were
// drawn so their stylesheets can be linked once.
type componentRenderer struct {
	templates   template.TemplateRenderer
	registry    *components.Registry
	placeholder string

	used []model.FieldType
	seen map[model.FieldType]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, placeholder string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:   templates,
		registry:    registry,
		placeholder: placeholder,
		seen:        make(map[model.FieldType]struct{}),
	}
}

func (r *componentRenderer) render(field model.FormField, data formdata.Data, errs []string) (string, error) {
	descriptor, ok := r.registry.Descriptor(field.Type)
	if !ok {
		return "", fmt.Errorf("%w: field %q has type %q", ErrUnsupportedFieldType, field.ID, field.Type)
	}

	id := controlID(field.ID)
	componentData := components.ComponentData{
		Template:          r.templates,
		ControlID:         id,
		Value:             data.String(field.ID),
		Checked:           field.Type == model.FieldTypeCheckbox && !data.Blank(field.ID),
		Invalid:           len(errs) > 0,
		SelectPlaceholder: r.placeholder,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, componentData); err != nil {
		return "", fmt.Errorf("render control for field %q: %w", field.ID, err)
	}

	if _, exists := r.seen[field.Type]; !exists {
		r.seen[field.Type] = struct{}{}
		r.used = append(r.used, field.Type)
	}

	return r.templates.RenderTemplate(chromeFieldTemplate, map[string]any{
		"field":      field,
		"control_id": id,
		"control":    control.String(),
		"errors":     errs,
	})
}

func (r *componentRenderer) renderFields(fields []model.FormField, data formdata.Data, errs map[string][]string) ([]string, error) {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		html, err := r.render(field, data, errs[field.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

func (r *componentRenderer) renderSection(section model.FormSection, data formdata.Data, errs map[string][]string, classes map[string]string) (string, error) {
	fields, err := r.renderFields(section.Fields, data, errs)
	if err != nil {
		return "", fmt.Errorf("section %q: %w", section.ID, err)
	}
	return r.templates.RenderTemplate(chromeSectionTemplate, map[string]any{
		"section": section,
		"fields":  fields,
		"classes": classes,
	})
}

func (r *componentRenderer) stylesheets() []string {
	return r.registry.Stylesheets(r.used)
}
