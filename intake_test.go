package intake

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

func TestEmbeddedTemplatesContainsWizardPage(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/wizard.tmpl"); err != nil {
		t.Fatalf("expected wizard template to be readable: %v", err)
	}
}

func TestLoadTemplatesMergesExtraFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"referral.yaml": {Data: []byte(`id: referral
title: Referral
steps:
  - title: Patient
    sections:
      - id: patient
        fields:
          - { id: patientName, label: Patient Name, type: text, required: true }
`)},
	}
	store, err := LoadTemplates(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.Get("referral"); err != nil {
		t.Fatalf("referral template missing: %v", err)
	}
	if _, err := store.Get(templates.ProductOrderID); err != nil {
		t.Fatalf("built-in template missing: %v", err)
	}
}

func TestNewWizardStartsAtFirstStep(t *testing.T) {
	store, err := LoadTemplates(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tpl, err := store.Get(templates.CustomerOnboardingID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	session, err := NewWizard(tpl)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	if got := session.Snapshot().State.Current; got != 1 {
		t.Fatalf("expected step 1, got %d", got)
	}
}

func TestRenderStep(t *testing.T) {
	store, err := LoadTemplates(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tpl, err := store.Get(templates.ProductOrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	selector, err := render.NewThemeSelector(render.DefaultThemeManifest())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	html, err := RenderStep(context.Background(), tpl, 4,
		WithAction("/orders"),
		WithLineItems([]model.LineItem{{ProductID: "p-1", Quantity: 2}}),
		WithRenderOptions(render.RenderOptions{Products: map[string]model.Option{"p-1": {Label: "Foam Dressing", Value: "p-1"}}}),
		WithThemeSelector(selector, "", "dark"),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(html)
	for _, want := range []string{"Step 4 of 5", `action="/orders"`, "Foam Dressing", `value="remove-product:0"`, "--color-primary"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in rendered step", want)
		}
	}

	if _, err := RenderStep(context.Background(), tpl, 9); err == nil {
		t.Fatalf("expected out-of-range step to fail")
	}
}
