package gotemplate_test

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render/template/gotemplate"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/testsupport"
)

var pages = fstest.MapFS{
	"hello.tmpl":   {Data: []byte("Hello, {{ name|trim }}!")},
	"partial.tmpl": {Data: []byte("{% include \"hello.tmpl\" %}|{{ count }}")},
	"wrapper.tmpl": {Data: []byte(`<div class="{{ kind|colspan }}">{{ label }}</div>`)},
	"steps.tmpl":   {Data: []byte("{% for s in steps %}[{{ s.Title }}]{% endfor %}")},
}

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, w)
	})

	if result != "Hello, Ada!" {
		t.Fatalf("render result: %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", result, written)
	}
}

func TestEngineColSpanFilter(t *testing.T) {
	engine := newEngine(t)

	wide, err := engine.RenderTemplate("wrapper", map[string]any{"kind": "textarea", "label": "Notes"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if wide != `<div class="md:col-span-2">Notes</div>` {
		t.Fatalf("textarea wrapper: %q", wide)
	}

	narrow, err := engine.RenderTemplate("wrapper", map[string]any{"kind": "text", "label": "Name"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if narrow != `<div class="">Name</div>` {
		t.Fatalf("text wrapper: %q", narrow)
	}
}

func TestEngineConvertsStructs(t *testing.T) {
	engine := newEngine(t)
	type step struct{ Title string }

	got, err := engine.RenderTemplate("steps", map[string]any{
		"steps": []step{{Title: "Customer"}, {Title: "Products"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[Customer][Products]" {
		t.Fatalf("render result: %q", got)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a template fs")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngineIncludesAndKeepsIntegers(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("partial.tmpl", struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{Name: "Ada", Count: 2})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello, Ada!|2" {
		t.Fatalf("render result: %q", got)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(pages))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
