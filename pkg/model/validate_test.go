package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTemplate() FormTemplate {
	return FormTemplate{
		ID:    "onboarding",
		Title: "Customer Onboarding",
		Steps: []Step{
			{
				Title: "Contact",
				Sections: []FormSection{{
					ID:    "contact",
					Title: "Contact",
					Fields: []FormField{
						{ID: "name", Label: "Name", Type: FieldTypeText, Required: true},
						{ID: "notes", Label: "Notes", Type: FieldTypeTextarea},
					},
				}},
			},
			{
				Title: "Plan",
				Sections: []FormSection{{
					ID: "plan",
					Fields: []FormField{
						{ID: "tier", Label: "Tier", Type: FieldTypeSelect, Options: []Option{{Label: "Basic", Value: "basic"}}},
					},
				}},
			},
		},
	}
}

func TestValidateAcceptsWellFormedTemplate(t *testing.T) {
	if err := sampleTemplate().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsStructuralProblems(t *testing.T) {
	cases := map[string]struct {
		mutate func(*FormTemplate)
		want   string
	}{
		"missing id": {
			mutate: func(tpl *FormTemplate) { tpl.ID = " " },
			want:   "template id is required",
		},
		"no steps": {
			mutate: func(tpl *FormTemplate) { tpl.Steps = nil },
			want:   "at least one step",
		},
		"unknown type": {
			mutate: func(tpl *FormTemplate) { tpl.Steps[0].Sections[0].Fields[0].Type = "signature" },
			want:   `unsupported type "signature"`,
		},
		"duplicate id": {
			mutate: func(tpl *FormTemplate) { tpl.Steps[1].Sections[0].Fields[0].ID = "name" },
			want:   `field "name" declared in steps 1 and 2`,
		},
		"select without options": {
			mutate: func(tpl *FormTemplate) { tpl.Steps[1].Sections[0].Fields[0].Options = nil },
			want:   "select requires options",
		},
		"slot without section": {
			mutate: func(tpl *FormTemplate) { tpl.Steps[1].Trailing = SlotAddProduct },
			want:   "add-product slot requires a section",
		},
		"signing field undeclared": {
			mutate: func(tpl *FormTemplate) { tpl.Signing = &SigningConfig{Field: "manufacturer"} },
			want:   `signing field "manufacturer"`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tpl := sampleTemplate()
			tc.mutate(&tpl)
			err := tpl.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestTemplateLookups(t *testing.T) {
	tpl := sampleTemplate()

	if got := tpl.TotalSteps(); got != 2 {
		t.Fatalf("total steps: want 2, got %d", got)
	}
	if got := tpl.TerminalLabel(); got != DefaultSubmitLabel {
		t.Fatalf("terminal label: want %q, got %q", DefaultSubmitLabel, got)
	}
	tpl.SubmitLabel = "Place Order"
	if got := tpl.TerminalLabel(); got != "Place Order" {
		t.Fatalf("terminal label override: got %q", got)
	}

	field, step, ok := tpl.FindField("tier")
	if !ok || step != 2 || field.Label != "Tier" {
		t.Fatalf("find field: got %+v step %d ok %v", field, step, ok)
	}
	if _, ok := tpl.Step(0); ok {
		t.Fatalf("step 0 should not exist")
	}

	var ids []string
	for _, f := range tpl.FieldsThrough(2) {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"name", "notes", "tier"}, ids); diff != "" {
		t.Fatalf("fields through mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorateWorksOnClone(t *testing.T) {
	tpl := sampleTemplate()
	decorated, err := Decorate(tpl, DecoratorFunc(func(form *FormTemplate) error {
		form.Steps[1].Sections[0].Fields[0].Options = append(form.Steps[1].Sections[0].Fields[0].Options, Option{Label: "Pro", Value: "pro"})
		return nil
	}))
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if got := len(decorated.Steps[1].Sections[0].Fields[0].Options); got != 2 {
		t.Fatalf("decorated options: want 2, got %d", got)
	}
	if got := len(tpl.Steps[1].Sections[0].Fields[0].Options); got != 1 {
		t.Fatalf("original template mutated: %d options", got)
	}
}

func TestContentSectionsSkipsSlotSection(t *testing.T) {
	step := Step{
		Trailing: SlotAddProduct,
		Sections: []FormSection{
			{ID: "shipping"},
			{ID: SlotAddProduct},
		},
	}
	got := step.ContentSections()
	if len(got) != 1 || got[0].ID != "shipping" {
		t.Fatalf("unexpected content sections: %+v", got)
	}
}
