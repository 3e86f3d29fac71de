package render

import "github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"

// RenderOptions carry per-request data renderers use to customise output
// without touching the template or the session.
type RenderOptions struct {
	// Errors holds field-level messages keyed by field id.
	Errors map[string][]string
	// FormErrors holds messages not tied to a field.
	FormErrors []string
	// Hidden inputs emitted in the step form (merged with the renderer's own).
	Hidden map[string]string
	// Products resolves line item product ids to display labels.
	Products map[string]model.Option
	// Locale and Translator localise labels; both are optional.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries resolved design tokens; nil uses renderer defaults.
	Theme *ThemeConfig
}

// WithErrors returns a copy of o carrying mapping.
func (o RenderOptions) WithErrors(mapping ErrorMapping) RenderOptions {
	o.Errors = mapping.Fields
	o.FormErrors = MergeFormErrors(o.FormErrors, mapping.Form...)
	return o
}

// ProductLabel returns the display label for a product id, or the id itself.
func (o RenderOptions) ProductLabel(id string) string {
	if opt, ok := o.Products[id]; ok && opt.Label != "" {
		return opt.Label
	}
	return id
}
