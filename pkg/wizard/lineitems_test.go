package wizard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

func TestAddLineItemAppendsAndClearsInputs(t *testing.T) {
	data := formdata.New(map[string]any{
		model.FieldProduct:  "sku-1",
		model.FieldQuantity: "3",
		"customerName":      "Acme",
	})
	existing := []model.LineItem{{ProductID: "sku-0", Quantity: 1}}

	next, items, err := AddLineItem(data, existing)
	if err != nil {
		t.Fatalf("add line item: %v", err)
	}

	want := []model.LineItem{{ProductID: "sku-0", Quantity: 1}, {ProductID: "sku-1", Quantity: 3}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("line items mismatch (-want +got):\n%s", diff)
	}
	if next.Has(model.FieldProduct) || next.Has(model.FieldQuantity) {
		t.Fatalf("expected product and quantity cleared, got keys %v", next.Keys())
	}
	if next.String("customerName") != "Acme" {
		t.Fatalf("unrelated keys must survive")
	}
	if len(existing) != 1 || !data.Has(model.FieldProduct) {
		t.Fatalf("inputs must not be modified")
	}
}

func TestAddLineItemValidation(t *testing.T) {
	cases := map[string]struct {
		values map[string]any
		want   map[string][]string
	}{
		"missing product": {
			values: map[string]any{model.FieldQuantity: 2},
			want:   map[string][]string{model.FieldProduct: {"Product is required"}},
		},
		"zero quantity": {
			values: map[string]any{model.FieldProduct: "sku-1", model.FieldQuantity: "0"},
			want:   map[string][]string{model.FieldQuantity: {"Quantity must be at least 1"}},
		},
		"fractional quantity": {
			values: map[string]any{model.FieldProduct: "sku-1", model.FieldQuantity: "1.5"},
			want:   map[string][]string{model.FieldQuantity: {"Quantity must be a whole number"}},
		},
		"nothing set": {
			values: nil,
			want: map[string][]string{
				model.FieldProduct:  {"Product is required"},
				model.FieldQuantity: {"Quantity must be a whole number"},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			data := formdata.New(tc.values)
			got, items, err := AddLineItem(data, nil)
			verr, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if diff := cmp.Diff(tc.want, verr.Fields); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
			if len(items) != 0 {
				t.Fatalf("no line item should be appended")
			}
			if got.Len() != data.Len() {
				t.Fatalf("data must be unchanged on failure")
			}
		})
	}
}

func TestRemoveLineItem(t *testing.T) {
	items := []model.LineItem{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}, {ProductID: "c", Quantity: 3}}

	got, err := RemoveLineItem(items, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []model.LineItem{{ProductID: "a", Quantity: 1}, {ProductID: "c", Quantity: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}
	if len(items) != 3 {
		t.Fatalf("input slice modified")
	}

	if _, err := RemoveLineItem(items, 3); err == nil {
		t.Fatalf("expected out of range error")
	}
}
