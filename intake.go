// Package intake is the top-level entry point for embedding the intake
// wizard: it aliases the template and rendering types and offers one-call
// helpers for starting a session and rendering a single step.
package intake

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/tui"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// FormTemplate defines a wizard.
type FormTemplate = model.FormTemplate

// RenderOptions carries per-request errors, locale and theme.
type RenderOptions = render.RenderOptions

// Session is one wizard run.
type Session = wizard.Session

// NewWizard starts a session at step 1 of tpl.
func NewWizard(tpl FormTemplate, options ...wizard.SessionOption) (*Session, error) {
	return wizard.NewSession(tpl, options...)
}

// LoadTemplates returns the built-in templates merged with every template
// file found in fsys. A nil fsys yields the built-ins alone.
func LoadTemplates(fsys fs.FS) (*templates.Store, error) {
	store, err := templates.Builtin()
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		return store, nil
	}
	extra, err := templates.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	if err := store.Merge(extra); err != nil {
		return nil, err
	}
	return store, nil
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can extend them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// NewRegistry registers the HTML renderer (the default) and the terminal
// renderer. A nil driver makes the terminal renderer prompt through survey.
func NewRegistry(driver tui.PromptDriver, pages ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(pages...)
	if err != nil {
		return nil, err
	}
	term, err := tui.New(tui.WithPromptDriver(driver))
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(term); err != nil {
		return nil, err
	}
	return registry, nil
}

// StepOption configures RenderStep.
type StepOption func(*stepConfig)

type stepConfig struct {
	renderer     render.Renderer
	options      render.RenderOptions
	data         formdata.Data
	lineItems    []model.LineItem
	action       string
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

// WithRenderOptions supplies errors, locale, translator and product labels.
func WithRenderOptions(opts render.RenderOptions) StepOption {
	return func(c *stepConfig) {
		c.options = opts
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(renderer render.Renderer) StepOption {
	return func(c *stepConfig) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithValues prefills the rendered fields.
func WithValues(values map[string]any) StepOption {
	return func(c *stepConfig) {
		c.data = formdata.New(values)
	}
}

// WithLineItems lists products already added to the order.
func WithLineItems(items []model.LineItem) StepOption {
	return func(c *stepConfig) {
		c.lineItems = append([]model.LineItem(nil), items...)
	}
}

// WithAction sets the form's POST target.
func WithAction(action string) StepOption {
	return func(c *stepConfig) {
		c.action = action
	}
}

// WithThemeSelector resolves name/variant through selector before rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) StepOption {
	return func(c *stepConfig) {
		c.selector = selector
		c.themeName = name
		c.themeVariant = variant
	}
}

// RenderStep renders step n of tpl without a live session, as a standalone
// HTML page unless WithRenderer picks another renderer.
func RenderStep(ctx context.Context, tpl FormTemplate, n int, options ...StepOption) ([]byte, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if _, ok := tpl.Step(n); !ok {
		return nil, fmt.Errorf("intake: template %q has no step %d", tpl.ID, n)
	}

	cfg := stepConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderer == nil {
		registry, err := NewRegistry(nil)
		if err != nil {
			return nil, err
		}
		if cfg.renderer, err = registry.Get(""); err != nil {
			return nil, err
		}
	}
	if cfg.selector != nil {
		resolved, err := render.ResolveTheme(cfg.selector, cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, err
		}
		cfg.options.Theme = resolved
	}

	state := wizard.State{Current: n, Total: tpl.TotalSteps()}
	snap := wizard.Snapshot{
		TemplateID: tpl.ID,
		State:      state,
		Progress:   state.Progress(),
		Controls:   wizard.ControlsFor(state, tpl, len(cfg.lineItems)),
		Data:       cfg.data,
		LineItems:  cfg.lineItems,
		Visited:    n,
	}
	return cfg.renderer.Render(ctx, render.NewView(tpl, snap, cfg.action), cfg.options)
}
