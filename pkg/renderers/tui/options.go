package tui

import (
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRenderOptions supplies the locale, translator and product labels used
// for every step.
func WithRenderOptions(opts render.RenderOptions) RunnerOption {
	return func(r *Runner) {
		r.options = opts
	}
}

// WithSigningResolver picks the DocuSeal URL for a completed submission. An
// empty result skips the hand-off.
func WithSigningResolver(fn func(wizard.Submission) string) RunnerOption {
	return func(r *Runner) {
		r.signing = fn
	}
}

// WithOpener sets the opener used for the hand-off (the platform browser by
// default).
func WithOpener(opener redirect.Opener) RunnerOption {
	return func(r *Runner) {
		if opener != nil {
			r.opener = opener
		}
	}
}

// WithRedirectOptions forwards options (clock, logger) to redirect.Schedule.
func WithRedirectOptions(options ...redirect.Option) RunnerOption {
	return func(r *Runner) {
		r.redirectOptions = append(r.redirectOptions, options...)
	}
}
