package templates_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

func readOpenAPI(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "orders.openapi.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestFromOpenAPI_TaggedOperations(t *testing.T) {
	got, err := templates.FromOpenAPI(context.Background(), readOpenAPI(t), false)
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 template, got %d", len(got))
	}

	tpl := got[0]
	if tpl.ID != "createOrder" || tpl.Title != "Quick Order" || tpl.TerminalLabel() != "Place Order" {
		t.Fatalf("unexpected template header: %+v", tpl)
	}

	want := []model.Step{
		{
			Title: "Contact",
			Sections: []model.FormSection{{
				ID:    "details",
				Title: "Details",
				Fields: []model.FormField{
					{ID: "contact_name", Label: "Contact name", Type: model.FieldTypeText, Required: true},
					{ID: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true},
				},
			}},
		},
		{
			Title: "Delivery",
			Sections: []model.FormSection{{
				ID:    "delivery-options",
				Title: "Delivery Options",
				Fields: []model.FormField{
					{ID: "instructions", Label: "Instructions", Type: model.FieldTypeTextarea},
					{ID: "priority", Label: "Priority", Type: model.FieldTypeSelect, Options: []model.Option{
						{Label: "Standard", Value: "standard"},
						{Label: "Rush", Value: "rush"},
					}},
				},
			}},
		},
	}
	if diff := cmp.Diff(want, tpl.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_IncludeAll(t *testing.T) {
	got, err := templates.FromOpenAPI(context.Background(), readOpenAPI(t), true)
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(got))
	}
	update := got[1]
	if update.ID != "updateOrder" || update.Fields(1)[0].Type != model.FieldTypeNumber {
		t.Fatalf("unexpected update template: %+v", update)
	}
}

func TestFromOpenAPI_Errors(t *testing.T) {
	if _, err := templates.FromOpenAPI(context.Background(), nil, false); err == nil {
		t.Fatalf("expected error for empty document")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := templates.FromOpenAPI(ctx, readOpenAPI(t), false); err == nil {
		t.Fatalf("expected context error")
	}
}
