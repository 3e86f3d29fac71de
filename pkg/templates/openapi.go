package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// Vendor extensions understood by FromOpenAPI.
const (
	// ExtWizard on an operation: {title, description, submitLabel, steps: [titles]}.
	ExtWizard = "x-wizard"
	// ExtStep on a property: 1-based step number (default 1).
	ExtStep = "x-wizard-step"
	// ExtSection on a property: section title (default "Details").
	ExtSection = "x-wizard-section"
	// ExtOrder on a property: sort key within its section.
	ExtOrder = "x-wizard-order"
	// ExtWidget on a property: explicit field type override.
	ExtWidget = "x-wizard-widget"
)

const (
	defaultSectionTitle = "Details"
	textareaMinLength   = 256
)

// FromOpenAPI builds one template per operation whose JSON request body is an
// object schema. Only operations carrying the x-wizard extension are used
// unless includeAll is true. The template id is the operationId.
func FromOpenAPI(ctx context.Context, data []byte, includeAll bool) ([]model.FormTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("templates: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("templates: load openapi document: %w", err)
	}
	if doc.Paths == nil {
		return nil, nil
	}

	var out []model.FormTemplate
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch} {
			if op == nil {
				continue
			}
			if _, tagged := op.Extensions[ExtWizard]; !tagged && !includeAll {
				continue
			}
			schema := requestSchema(op.RequestBody)
			if schema == nil || len(schema.Properties) == 0 {
				continue
			}
			tpl, err := templateFromOperation(op, schema)
			if err != nil {
				return nil, err
			}
			if err := tpl.Validate(); err != nil {
				return nil, fmt.Errorf("templates: operation %q: %w", op.OperationID, err)
			}
			out = append(out, tpl)
		}
	}
	return out, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type propertyField struct {
	step    int
	section string
	order   float64
	field   model.FormField
}

func templateFromOperation(op *openapi3.Operation, schema *openapi3.Schema) (model.FormTemplate, error) {
	meta, _ := op.Extensions[ExtWizard].(map[string]any)

	tpl := model.FormTemplate{
		ID:          op.OperationID,
		Title:       firstNonEmpty(stringValue(meta["title"]), op.Summary, humanise(op.OperationID)),
		Description: firstNonEmpty(stringValue(meta["description"]), op.Description),
		SubmitLabel: stringValue(meta["submitLabel"]),
	}
	if tpl.ID == "" {
		return model.FormTemplate{}, errors.New("templates: wizard operations require an operationId")
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var props []propertyField
	maxStep := 1
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		prop := ref.Value
		step := 1
		if n, ok := intValue(prop.Extensions[ExtStep]); ok && n > 0 {
			step = n
		}
		if step > maxStep {
			maxStep = step
		}
		order, _ := floatValue(prop.Extensions[ExtOrder])
		props = append(props, propertyField{
			step:    step,
			section: firstNonEmpty(stringValue(prop.Extensions[ExtSection]), defaultSectionTitle),
			order:   order,
			field: model.FormField{
				ID:          name,
				Label:       firstNonEmpty(prop.Title, humanise(name)),
				Type:        fieldType(prop),
				Required:    required[name],
				Description: prop.Description,
				Options:     enumOptions(prop.Enum),
			},
		})
	}
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].step != props[j].step {
			return props[i].step < props[j].step
		}
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].field.ID < props[j].field.ID
	})

	stepTitles := stringSlice(meta["steps"])
	tpl.Steps = make([]model.Step, maxStep)
	for i := range tpl.Steps {
		title := fmt.Sprintf("Step %d", i+1)
		if i < len(stepTitles) && stepTitles[i] != "" {
			title = stepTitles[i]
		}
		tpl.Steps[i].Title = title
	}
	for _, prop := range props {
		step := &tpl.Steps[prop.step-1]
		idx := -1
		for i, section := range step.Sections {
			if section.Title == prop.section {
				idx = i
				break
			}
		}
		if idx < 0 {
			step.Sections = append(step.Sections, model.FormSection{ID: slug(prop.section), Title: prop.section})
			idx = len(step.Sections) - 1
		}
		step.Sections[idx].Fields = append(step.Sections[idx].Fields, prop.field)
	}
	return tpl, nil
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	if widget := model.FieldType(stringValue(schema.Extensions[ExtWidget])); widget.Known() {
		return widget
	}
	if len(schema.Enum) > 0 {
		return model.FieldTypeSelect
	}
	var typ string
	if schema.Type != nil {
		if values := schema.Type.Slice(); len(values) > 0 {
			typ = values[0]
		}
	}
	switch typ {
	case "integer", "number":
		return model.FieldTypeNumber
	case "boolean":
		return model.FieldTypeCheckbox
	}
	switch schema.Format {
	case "email":
		return model.FieldTypeEmail
	case "date", "date-time":
		return model.FieldTypeDate
	case "tel", "phone":
		return model.FieldTypeTel
	case "textarea":
		return model.FieldTypeTextarea
	}
	if schema.MaxLength != nil && *schema.MaxLength >= textareaMinLength {
		return model.FieldTypeTextarea
	}
	return model.FieldTypeText
}

func enumOptions(values []any) []model.Option {
	if len(values) == 0 {
		return nil
	}
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		text := fmt.Sprint(value)
		out = append(out, model.Option{Label: humanise(text), Value: text})
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringValue(item))
	}
	return out
}

func intValue(v any) (int, bool) {
	f, ok := floatValue(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// humanise turns camelCase, snake_case and kebab-case identifiers into a
// capitalised label.
func humanise(id string) string {
	var b strings.Builder
	prevLower := false
	for i, r := range id {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
