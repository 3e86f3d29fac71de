package template

import (
	"io"
)

// TemplateRenderer is the template-engine seam HTML renderers depend on.
// Output is returned and, when writers are supplied, also copied to each.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
