package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.View, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("tui"))

	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected name error")
	}

	def, err := registry.Get("")
	if err != nil || def.Name() != "vanilla" {
		t.Fatalf("default renderer: %v %v", def, err)
	}
	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	def, _ = registry.Get("")
	if def.Name() != "tui" {
		t.Fatalf("default after SetDefault: %s", def.Name())
	}
	if _, err := registry.Get("preact"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if err := registry.SetDefault("preact"); err == nil {
		t.Fatalf("expected error selecting an unregistered default")
	}
	if def, _ := registry.Get(""); def.Name() != "tui" {
		t.Fatalf("failed SetDefault changed the default to %s", def.Name())
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
