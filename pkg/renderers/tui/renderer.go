package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
)

const dateLayout = "2006-01-02"

// Renderer implements render.Renderer for terminal sessions: rendering a
// step means prompting for each of its fields.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for the fields of the current step, prefilled from the
// view's data, and serializes the answers.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

// Collect prompts for the current step's content fields and returns the
// answers keyed by field id. The add-product slot is not prompted here.
func (r *Renderer) Collect(ctx context.Context, view render.View, opts render.RenderOptions) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	tpl := render.LocalizeTemplate(view.Template, opts)
	step, ok := tpl.Step(view.State.Current)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoStep, view.State.Current)
	}

	header := opts.Text(render.KeyStepOf,
		fmt.Sprintf("Step %d of %d", view.Progress.CurrentStep, view.Progress.TotalSteps),
		view.Progress.CurrentStep, view.Progress.TotalSteps)
	if step.Title != "" {
		header += ": " + step.Title
	}
	if err := r.info(ctx, header); err != nil {
		return nil, err
	}
	for _, message := range opts.FormErrors {
		if err := r.failure(ctx, message); err != nil {
			return nil, err
		}
	}

	var fields []model.FormField
	for _, section := range step.ContentSections() {
		fields = append(fields, section.Fields...)
	}
	return r.collectFields(ctx, fields, view.Data, opts)
}

func (r *Renderer) collectFields(ctx context.Context, fields []model.FormField, data formdata.Data, opts render.RenderOptions) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		for _, message := range opts.Errors[field.ID] {
			if err := r.failure(ctx, message); err != nil {
				return nil, err
			}
		}
		value, set, err := r.promptField(ctx, field, data, opts)
		if err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.ID, err)
		}
		if set {
			values[field.ID] = value
		}
	}
	return values, nil
}

// promptField asks for one value. set is false when an optional field was
// left empty and had no prior value.
func (r *Renderer) promptField(ctx context.Context, field model.FormField, data formdata.Data, opts render.RenderOptions) (any, bool, error) {
	label := displayLabel(field)
	current := data.String(field.ID)

	switch field.Type {
	case model.FieldTypeCheckbox:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: !data.Blank(field.ID),
			Help:    field.Description,
		})
		return resp, err == nil, err

	case model.FieldTypeSelect:
		return r.promptSelect(ctx, field, current, opts)

	case model.FieldTypeTextarea:
		resp, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current,
			Help:    field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		return resp, resp != "" || current != "", nil

	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeTel, model.FieldTypeNumber, model.FieldTypeDate:
		resp, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current,
			Help:      displayHelp(field),
			Validator: fieldValidator(field),
		})
		if err != nil {
			return nil, false, err
		}
		resp = strings.TrimSpace(resp)
		if resp == "" {
			return "", current != "", nil
		}
		if field.Type == model.FieldTypeNumber {
			return parseNumber(resp), true, nil
		}
		return resp, true, nil

	default:
		return nil, false, fmt.Errorf("unsupported field type %q", field.Type)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.FormField, current string, opts render.RenderOptions) (any, bool, error) {
	if len(field.Options) == 0 {
		return nil, false, r.info(ctx, fmt.Sprintf("%s: no options available", displayLabel(field)))
	}
	labels := make([]string, 0, len(field.Options)+1)
	offset := 0
	if !field.Required {
		labels = append(labels, opts.Text(render.KeySelectDefault, "(none)"))
		offset = 1
	}
	defaultIndex := 0
	for i, option := range field.Options {
		labels = append(labels, option.Label)
		if option.Value == current {
			defaultIndex = i + offset
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         field.Description,
	})
	if err != nil {
		return nil, false, err
	}
	if idx < offset || idx >= len(labels) {
		return "", current != "", nil
	}
	return field.Options[idx-offset].Value, true, nil
}

func (r *Renderer) info(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+message)
}

func (r *Renderer) failure(ctx context.Context, message string) error {
	prefix := r.theme.ErrorPrefix
	if prefix == "" {
		prefix = "! "
	}
	return r.driver.Info(ctx, prefix+message)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// fieldValidator enforces required and format rules before the answer is
// accepted; survey re-prompts on error.
func fieldValidator(field model.FormField) func(string) error {
	return func(raw string) error {
		value := strings.TrimSpace(raw)
		if value == "" {
			if field.Required {
				return fmt.Errorf("%s is required", displayLabel(field))
			}
			return nil
		}
		switch field.Type {
		case model.FieldTypeEmail:
			if _, err := mail.ParseAddress(value); err != nil {
				return fmt.Errorf("enter a valid email address")
			}
		case model.FieldTypeNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("enter a number")
			}
		case model.FieldTypeDate:
			if _, err := time.Parse(dateLayout, value); err != nil {
				return fmt.Errorf("enter a date as YYYY-MM-DD")
			}
		}
		return nil
	}
}

func parseNumber(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func displayLabel(field model.FormField) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	return label
}

func displayHelp(field model.FormField) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
