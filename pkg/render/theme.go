package render

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the renderer-facing result of a theme selection.
type ThemeConfig struct {
	Theme   string
	Variant string
	Tokens  map[string]string
	// CSSVars maps "--<token>" to its value.
	CSSVars map[string]string
	// Assets maps asset keys to URLs under the manifest prefix.
	Assets map[string]string
}

// Stylesheet returns the URL of the "stylesheet" asset, if any.
func (c *ThemeConfig) Stylesheet() string {
	if c == nil {
		return ""
	}
	return c.Assets["stylesheet"]
}

// ErrUnknownTheme is returned when a theme name is not registered.
var ErrUnknownTheme = errors.New("render: unknown theme")

// ThemeSelector resolves named manifests and variants. It satisfies
// theme.ThemeSelector.
type ThemeSelector struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeSelector)(nil)

// manifestRegistry is the validation half of go-theme's registry.
type manifestRegistry interface {
	Register(*theme.Manifest) error
}

// NewThemeSelector registers manifests. The first manifest is the default.
func NewThemeSelector(manifests ...*theme.Manifest) (*ThemeSelector, error) {
	s := &ThemeSelector{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest.
func (s *ThemeSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// SetDefault changes the theme and variant used for empty names.
func (s *ThemeSelector) SetDefault(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.defaultTheme = name
	}
	s.defaultVariant = variant
}

// Select returns the manifest for name. Unknown variants fall back to the
// base manifest.
func (s *ThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ResolveTheme selects name/variant through selector and flattens it.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ThemeConfigFromSelection(selection), nil
}

// ThemeConfigFromSelection merges the manifest with the selected variant.
func ThemeConfigFromSelection(selection *theme.Selection) *ThemeConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	cfg := &ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  make(map[string]string, len(manifest.Tokens)),
		CSSVars: make(map[string]string, len(manifest.Tokens)),
		Assets:  make(map[string]string, len(manifest.Assets.Files)),
	}
	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	for key, file := range manifest.Assets.Files {
		cfg.Assets[key] = assetURL(prefix, file)
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			cfg.Tokens[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for key, file := range variant.Assets.Files {
			cfg.Assets[key] = assetURL(prefix, file)
		}
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return cfg
}

func assetURL(prefix, file string) string {
	if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
		return file
	}
	return path.Join(prefix, file)
}

// DefaultThemeManifest is the built-in intake theme with a "dark" variant.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "intake",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-primary":    "#2563eb",
			"color-surface":    "#ffffff",
			"color-text":       "#111827",
			"color-muted":      "#6b7280",
			"color-border":     "#e5e7eb",
			"color-danger":     "#dc2626",
			"radius":           "0.5rem",
			"font-family-base": "ui-sans-serif, system-ui, sans-serif",
		},
		Templates: map[string]string{
			"wizard.page": "page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "intake.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-surface": "#111827",
					"color-text":    "#f9fafb",
					"color-border":  "#374151",
				},
			},
		},
	}
}
