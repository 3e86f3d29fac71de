package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

// MustBuiltinTemplate returns one of the bundled templates.
func MustBuiltinTemplate(t *testing.T, id string) model.FormTemplate {
	t.Helper()

	store, err := templates.Builtin()
	if err != nil {
		t.Fatalf("load builtin templates: %v", err)
	}
	tpl, err := store.Get(id)
	if err != nil {
		t.Fatalf("builtin template: %v", err)
	}
	return tpl
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
