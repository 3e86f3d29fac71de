package components

// Template paths of the built-in controls, relative to the vanilla bundle.
const (
	TemplateInput    = "templates/components/input.tmpl"
	TemplateTextarea = "templates/components/textarea.tmpl"
	TemplateSelect   = "templates/components/select.tmpl"
	TemplateCheckbox = "templates/components/checkbox.tmpl"
)
