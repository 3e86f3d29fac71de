package wizard

import "github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"

func orderTemplate() model.FormTemplate {
	section := func(id string, fields ...model.FormField) model.FormSection {
		return model.FormSection{ID: id, Title: id, Fields: fields}
	}
	text := func(id string, required bool) model.FormField {
		return model.FormField{ID: id, Label: id, Type: model.FieldTypeText, Required: required}
	}
	return model.FormTemplate{
		ID:          "order",
		Title:       "Product Order",
		SubmitLabel: "Place Order",
		Steps: []model.Step{
			{Title: "Customer", Sections: []model.FormSection{section("customer", text("customerName", true))}},
			{Title: "Shipping", Sections: []model.FormSection{section("shipping", text("address", true))}},
			{Title: "Billing", Sections: []model.FormSection{section("billing", text("billingContact", false))}},
			{
				Title:             "Products",
				RequiresLineItems: true,
				Trailing:          model.SlotAddProduct,
				Sections: []model.FormSection{section(model.SlotAddProduct,
					model.FormField{ID: model.FieldProduct, Label: "Product", Type: model.FieldTypeSelect},
					model.FormField{ID: model.FieldQuantity, Label: "Quantity", Type: model.FieldTypeNumber},
				)},
			},
			{Title: "Review", Sections: []model.FormSection{section("review", text("notes", false))}},
		},
	}
}
