package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

func errorTemplate() model.FormTemplate {
	return model.FormTemplate{
		ID: "order",
		Steps: []model.Step{
			{Sections: []model.FormSection{{ID: "customer", Fields: []model.FormField{
				{ID: "customerName", Label: "Customer Name", Type: model.FieldTypeText},
				{ID: "customerEmail", Label: "Email", Type: model.FieldTypeEmail},
			}}}},
			{Sections: []model.FormSection{{ID: "add-product", Fields: []model.FormField{
				{ID: "product", Label: "Product", Type: model.FieldTypeSelect},
				{ID: "quantity", Label: "Quantity", Type: model.FieldTypeNumber},
			}}}},
		},
	}
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"/data/customerName":      {"Customer name is required"},
		"formData[customerEmail]": {"Email invalid", " Email invalid "},
		"$.lineItems[0].quantity": {"Quantity must be positive"},
		"non_field_errors":        {"Form level error"},
		"request/body/unknown":    {"Should fall back to form errors"},
		"":                        {"Unscoped form error"},
		"body.customerName":       {"  "},
	}

	mapped := render.MapErrorPayload(errorTemplate(), payload)

	wantFields := map[string][]string{
		"customerName":  {"Customer name is required"},
		"customerEmail": {"Email invalid"},
		"quantity":      {"Quantity must be positive"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorFromWizard(t *testing.T) {
	verr := &wizard.ValidationError{Form: []string{"Check the highlighted fields"}}
	verr.Add("customerName", "Customer Name is required")

	mapped := render.MapError(errorTemplate(), verr)
	if diff := cmp.Diff(map[string][]string{"customerName": {"Customer Name is required"}}, mapped.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Check the highlighted fields"}, mapped.Form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	guard := render.MapError(errorTemplate(), wizard.ErrLineItemsRequired)
	if len(guard.Form) != 1 || guard.Fields != nil {
		t.Fatalf("line item guard should map to a form error: %+v", guard)
	}

	other := render.MapError(errorTemplate(), errors.New("database unavailable"))
	if diff := cmp.Diff([]string{"database unavailable"}, other.Form); diff != "" {
		t.Fatalf("generic error mismatch (-want +got):\n%s", diff)
	}

	if got := render.MapError(errorTemplate(), nil); got.Fields != nil || got.Form != nil {
		t.Fatalf("nil error should map to nothing: %+v", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
