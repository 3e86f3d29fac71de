package wizard

import (
	"fmt"
	"strings"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// AddLineItem reads the product and quantity keys, appends a line item and
// returns the snapshot with both keys cleared. The inputs are not modified.
func AddLineItem(data formdata.Data, items []model.LineItem) (formdata.Data, []model.LineItem, error) {
	verr := &ValidationError{}

	productID := strings.TrimSpace(data.String(model.FieldProduct))
	if productID == "" {
		verr.Add(model.FieldProduct, "Product is required")
	}

	quantity, err := data.Int(model.FieldQuantity)
	switch {
	case err != nil:
		verr.Add(model.FieldQuantity, "Quantity must be a whole number")
	case quantity <= 0:
		verr.Add(model.FieldQuantity, "Quantity must be at least 1")
	}

	if !verr.Empty() {
		return data, items, verr
	}

	out := make([]model.LineItem, len(items), len(items)+1)
	copy(out, items)
	out = append(out, model.LineItem{ProductID: productID, Quantity: quantity})
	return data.Clear(model.FieldProduct, model.FieldQuantity), out, nil
}

// RemoveLineItem drops the item at index.
func RemoveLineItem(items []model.LineItem, index int) ([]model.LineItem, error) {
	if index < 0 || index >= len(items) {
		return items, fmt.Errorf("wizard: line item %d out of range", index)
	}
	out := make([]model.LineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out, nil
}
