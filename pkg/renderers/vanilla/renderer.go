package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	rendertemplate "github.com/rvalen1123/msc-admin-assist-sub001/pkg/render/template"
	gotemplate "github.com/rvalen1123/msc-admin-assist-sub001/pkg/render/template/gotemplate"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla/components"
)

const (
	pageTemplate     = "templates/page.tmpl"
	wizardTemplate   = "templates/wizard.tmpl"
	redirectTemplate = "templates/redirect.tmpl"
	completeTemplate = "templates/complete.tmpl"

	// DefaultStylesheet is linked when no theme supplies one.
	DefaultStylesheet = "/assets/" + StylesheetName
)

type Option func(*config)

type config struct {
	templateFS fs.FS
	registry   *components.Registry
	classes    ChromeClasses
	stylesheet string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk laid out like
// TemplatesFS (a templates/ folder holding every page and chrome file).
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithComponentRegistry replaces the field type dispatch table.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithChromeClasses overrides chrome element classes.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithStylesheet changes the stylesheet linked when no theme is selected.
// An empty href links none.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// Renderer draws wizard steps as server-rendered HTML pages.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	registry   *components.Registry
	classes    ChromeClasses
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), stylesheet: DefaultStylesheet}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tmpl"),
	)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
	}

	return &Renderer{
		templates:  engine,
		registry:   cfg.registry,
		classes:    cfg.classes,
		stylesheet: cfg.stylesheet,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the current step: progress, the step's sections, the
// add-product slot with its line item table when the step has one, and the
// Back/primary footer.
func (r *Renderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}

	tpl := render.LocalizeTemplate(view.Template, opts)
	step, ok := tpl.Step(view.State.Current)
	if !ok {
		return nil, fmt.Errorf("vanilla renderer: template %q has no step %d", tpl.ID, view.State.Current)
	}

	classes := r.classes.payload()
	fields := newComponentRenderer(r.templates, r.registry, opts.Text(render.KeySelectDefault, "Select an option"))

	sections := make([]string, 0, len(step.Sections))
	for _, section := range step.ContentSections() {
		html, err := fields.renderSection(section, view.Data, opts.Errors, classes)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		sections = append(sections, html)
	}

	var addProduct, lineItems string
	if step.Trailing == model.SlotAddProduct {
		slot, _ := step.Section(model.SlotAddProduct)
		html, err := r.renderAddProduct(fields, slot, view, opts, classes)
		if err != nil {
			return nil, err
		}
		addProduct = html
	}
	if step.Trailing == model.SlotAddProduct || step.RequiresLineItems {
		html, err := r.renderLineItems(view.LineItems, opts, classes)
		if err != nil {
			return nil, err
		}
		lineItems = html
	}

	progress, err := r.templates.RenderTemplate(chromeProgressTemplate, map[string]any{
		"classes": classes,
		"current": view.Progress.CurrentStep,
		"total":   view.Progress.TotalSteps,
		"percent": view.Progress.PercentComplete,
		"label": opts.Text(render.KeyStepOf,
			fmt.Sprintf("Step %d of %d", view.Progress.CurrentStep, view.Progress.TotalSteps),
			view.Progress.CurrentStep, view.Progress.TotalSteps),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render progress: %w", err)
	}

	footer, err := r.renderFooter(view, tpl, opts, classes)
	if err != nil {
		return nil, err
	}

	body, err := r.templates.RenderTemplate(wizardTemplate, map[string]any{
		"classes":     classes,
		"title":       tpl.Title,
		"description": tpl.Description,
		"template_id": tpl.ID,
		"action":      view.Action,
		"step": map[string]any{
			"number":      view.State.Current,
			"title":       step.Title,
			"description": step.Description,
		},
		"progress":    progress,
		"form_errors": opts.FormErrors,
		"sections":    sections,
		"add_product": addProduct,
		"line_items":  lineItems,
		"footer":      footer,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render step: %w", err)
	}

	return r.page(tpl.Title, body, "", fields.stylesheets(), opts)
}

// RenderRedirect draws the hand-off page shown after a successful submit. The
// page notifies after plan.NotifyDelay and navigates to plan.URL after a
// further plan.OpenDelay; the link is the no-script fallback.
func (r *Renderer) RenderRedirect(_ context.Context, tpl model.FormTemplate, plan redirect.Plan, opts render.RenderOptions) ([]byte, error) {
	if strings.TrimSpace(plan.URL) == "" {
		return nil, errors.New("vanilla renderer: redirect url is required")
	}
	tpl = render.LocalizeTemplate(tpl, opts)
	classes := r.classes.payload()

	body, err := r.templates.RenderTemplate(redirectTemplate, map[string]any{
		"classes":      classes,
		"title":        tpl.Title,
		"url":          plan.URL,
		"notify_delay": plan.NotifyDelay.Milliseconds(),
		"open_delay":   plan.OpenDelay.Milliseconds(),
		"notice":       opts.Text(render.KeyRedirecting, "Redirecting you to DocuSeal to sign your documents..."),
		"link_label":   opts.Text(render.KeyRedirectLink, "Continue to DocuSeal"),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render redirect: %w", err)
	}
	return r.page(tpl.Title, body, redirectScript(), nil, opts)
}

// RenderComplete draws the confirmation page for templates without signing.
func (r *Renderer) RenderComplete(_ context.Context, tpl model.FormTemplate, restartURL string, opts render.RenderOptions) ([]byte, error) {
	tpl = render.LocalizeTemplate(tpl, opts)
	body, err := r.templates.RenderTemplate(completeTemplate, map[string]any{
		"classes":       r.classes.payload(),
		"template_id":   tpl.ID,
		"title":         tpl.Title,
		"message":       opts.Text("wizard.complete", "Thank you. Your form has been submitted."),
		"restart_url":   restartURL,
		"restart_label": opts.Text("wizard.restart", "Start another"),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render complete: %w", err)
	}
	return r.page(tpl.Title, body, "", nil, opts)
}

func (r *Renderer) renderAddProduct(fields *componentRenderer, slot model.FormSection, view render.View, opts render.RenderOptions, classes map[string]string) (string, error) {
	rendered, err := fields.renderFields(slot.Fields, view.Data, opts.Errors)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: add-product: %w", err)
	}
	html, err := r.templates.RenderTemplate(chromeAddProductTemplate, map[string]any{
		"classes":      classes,
		"title":        slot.Title,
		"fields":       rendered,
		"button_label": opts.Text(render.KeyAddProduct, "Add Product"),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render add-product: %w", err)
	}
	return html, nil
}

func (r *Renderer) renderLineItems(items []model.LineItem, opts render.RenderOptions, classes map[string]string) (string, error) {
	rows := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, map[string]any{
			"index":      i,
			"product_id": item.ProductID,
			"label":      opts.ProductLabel(item.ProductID),
			"quantity":   item.Quantity,
		})
	}
	html, err := r.templates.RenderTemplate(chromeLineItemsTemplate, map[string]any{
		"classes":          classes,
		"items":            rows,
		"product_heading":  opts.Text("wizard.product", "Product"),
		"quantity_heading": opts.Text("wizard.quantity", "Quantity"),
		"remove_label":     opts.Text(render.KeyRemove, "Remove"),
		"empty_label":      opts.Text(render.KeyNoLineItems, "No products added yet."),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render line items: %w", err)
	}
	return html, nil
}

func (r *Renderer) renderFooter(view render.View, tpl model.FormTemplate, opts render.RenderOptions, classes map[string]string) (string, error) {
	controls := view.Controls

	backLabel := opts.Text(render.KeyBack, nonEmpty(controls.BackLabel, model.DefaultBackLabel))
	primaryAction := "next"
	primaryLabel := opts.Text(render.KeyContinue, nonEmpty(controls.PrimaryLabel, model.DefaultContinueLabel))
	if controls.Final {
		primaryAction = "submit"
		if strings.TrimSpace(tpl.SubmitLabel) != "" {
			primaryLabel = tpl.TerminalLabel()
		} else {
			primaryLabel = opts.Text(render.KeySubmit, model.DefaultSubmitLabel)
		}
	}

	extra := []render.HiddenField{render.StepMarker(view.State.Current)}
	if view.SessionID != "" {
		extra = append(extra, render.Hidden(render.SessionFieldName, view.SessionID))
	}
	hidden := render.SortedHiddenFields(render.MergeHiddenFields(opts.Hidden, extra...))

	html, err := r.templates.RenderTemplate(chromeFooterTemplate, map[string]any{
		"classes":          classes,
		"hidden":           hiddenPayload(hidden),
		"back_label":       backLabel,
		"back_disabled":    controls.BackDisabled,
		"primary_action":   primaryAction,
		"primary_label":    primaryLabel,
		"primary_disabled": controls.PrimaryDisabled,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render footer: %w", err)
	}
	return html, nil
}

func (r *Renderer) page(title, body, script string, extraStylesheets []string, opts render.RenderOptions) ([]byte, error) {
	var stylesheets []string
	if href := opts.Theme.Stylesheet(); href != "" {
		stylesheets = append(stylesheets, href)
	} else if r.stylesheet != "" {
		stylesheets = append(stylesheets, r.stylesheet)
	}
	stylesheets = append(stylesheets, extraStylesheets...)

	payload := map[string]any{
		"classes":     r.classes.payload(),
		"locale":      localeOrDefault(opts.Locale),
		"title":       title,
		"body":        body,
		"script":      script,
		"stylesheets": stylesheets,
		"css_vars":    cssVarsPayload(opts.Theme),
	}
	if opts.Theme != nil {
		payload["theme"] = opts.Theme.Theme
		payload["theme_variant"] = opts.Theme.Variant
	}

	result, err := r.templates.RenderTemplate(pageTemplate, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
