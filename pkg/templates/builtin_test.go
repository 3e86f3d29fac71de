package templates_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

func TestBuiltinTemplates(t *testing.T) {
	store, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}

	want := []string{templates.CustomerOnboardingID, templates.InsuranceDMEID, templates.ProductOrderID}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("builtin ids mismatch (-want +got):\n%s", diff)
	}

	steps := map[string]int{
		templates.CustomerOnboardingID: 3,
		templates.ProductOrderID:       5,
		templates.InsuranceDMEID:       4,
	}
	for id, total := range steps {
		tpl, err := store.Get(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if tpl.TotalSteps() != total {
			t.Fatalf("%s: want %d steps, got %d", id, total, tpl.TotalSteps())
		}
	}
}

func TestBuiltinProductOrder(t *testing.T) {
	store, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	tpl, err := store.Get(templates.ProductOrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if tpl.TerminalLabel() != "Place Order" {
		t.Fatalf("terminal label: got %q", tpl.TerminalLabel())
	}
	products, _ := tpl.Step(4)
	if !products.RequiresLineItems || products.Trailing != model.SlotAddProduct {
		t.Fatalf("step 4 must be the products step: %+v", products)
	}
	if len(products.ContentSections()) != 0 {
		t.Fatalf("products step should only hold the add-product section")
	}
	if tpl.Signing == nil || tpl.Signing.Field != "manufacturer" || len(tpl.Signing.URLs) != 3 {
		t.Fatalf("unexpected signing config: %+v", tpl.Signing)
	}
}

func TestBuiltinInsuranceUsesTextareaAndCheckbox(t *testing.T) {
	store, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	tpl, _ := store.Get(templates.InsuranceDMEID)

	seen := map[model.FieldType]bool{}
	for n := 1; n <= tpl.TotalSteps(); n++ {
		for _, field := range tpl.Fields(n) {
			seen[field.Type] = true
		}
	}
	if !seen[model.FieldTypeTextarea] || !seen[model.FieldTypeCheckbox] {
		t.Fatalf("expected textarea and checkbox fields, saw %v", seen)
	}
}

func TestWithProductCatalogue(t *testing.T) {
	store, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	tpl, _ := store.Get(templates.ProductOrderID)

	catalogue := []model.Option{{Label: "Collagen Dressing", Value: "sku-1"}}
	decorated, err := model.Decorate(tpl,
		templates.WithProductCatalogue(catalogue),
		templates.WithSigningDefault("https://docuseal.co/d/default"),
	)
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}

	field, _, ok := decorated.FindField(model.FieldProduct)
	if !ok {
		t.Fatalf("product field missing")
	}
	if diff := cmp.Diff(catalogue, field.Options); diff != "" {
		t.Fatalf("catalogue mismatch (-want +got):\n%s", diff)
	}
	if decorated.Signing.Default != "https://docuseal.co/d/default" {
		t.Fatalf("signing default not applied: %+v", decorated.Signing)
	}
	if original, _, _ := tpl.FindField(model.FieldProduct); len(original.Options) != 0 {
		t.Fatalf("original template mutated")
	}
}
