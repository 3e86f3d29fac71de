package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. fallback is the untranslated template text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Catalog is a Translator backed by a map of locale to key to message.
// Messages may carry fmt verbs filled from args.
type Catalog map[string]map[string]string

// Translate looks key up for locale, falling back to the base language
// ("en" for "en-US").
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("render: no translation for %q in %q", key, locale)
}

// ParseCatalog decodes a YAML document of locale -> key -> message.
func ParseCatalog(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("render: parse catalog: %w", err)
	}
	for locale, messages := range catalog {
		if strings.TrimSpace(locale) == "" {
			return nil, errors.New("render: catalog locale is empty")
		}
		if messages == nil {
			delete(catalog, locale)
		}
	}
	return catalog, nil
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}

// Message keys used for wizard chrome.
const (
	KeyBack          = "wizard.back"
	KeyContinue      = "wizard.continue"
	KeySubmit        = "wizard.submit"
	KeyStepOf        = "wizard.stepOf"
	KeyAddProduct    = "wizard.addProduct"
	KeyRemove        = "wizard.remove"
	KeyRedirecting   = "redirect.notice"
	KeyRedirectLink  = "redirect.link"
	KeyNoLineItems   = "wizard.noLineItems"
	KeySelectDefault = "wizard.selectPlaceholder"
)

// Text translates key with opts, falling back to fallback.
func (o RenderOptions) Text(key, fallback string, args ...any) string {
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if o.Translator == nil {
		return onMissing(o.Locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := o.Translator.Translate(o.Locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(o.Locale, key, fallback, err)
	}
	return msg
}

// LocalizeTemplate returns a copy of tpl with titles, labels, placeholders and
// descriptions translated. Keys follow "<template>.title",
// "<template>.steps.<n>.title", "<template>.sections.<id>.title" and
// "<template>.fields.<id>.label|placeholder|description". Untranslated keys keep
// the template text.
func LocalizeTemplate(tpl model.FormTemplate, opts RenderOptions) model.FormTemplate {
	out := tpl.Clone()
	if opts.Translator == nil {
		return out
	}
	lookup := func(key, fallback string) string {
		if fallback == "" {
			return fallback
		}
		msg, err := opts.Translator.Translate(opts.Locale, out.ID+"."+key)
		if err != nil || strings.TrimSpace(msg) == "" {
			return fallback
		}
		return msg
	}

	out.Title = lookup("title", out.Title)
	out.Description = lookup("description", out.Description)
	out.SubmitLabel = lookup("submitLabel", out.SubmitLabel)
	for i := range out.Steps {
		step := &out.Steps[i]
		prefix := "steps." + strconv.Itoa(i+1)
		step.Title = lookup(prefix+".title", step.Title)
		step.Description = lookup(prefix+".description", step.Description)
		for j := range step.Sections {
			section := &step.Sections[j]
			section.Title = lookup("sections."+section.ID+".title", section.Title)
			for k := range section.Fields {
				field := &section.Fields[k]
				fieldPrefix := "fields." + field.ID
				field.Label = lookup(fieldPrefix+".label", field.Label)
				field.Placeholder = lookup(fieldPrefix+".placeholder", field.Placeholder)
				field.Description = lookup(fieldPrefix+".description", field.Description)
				for o := range field.Options {
					field.Options[o].Label = lookup(fieldPrefix+".options."+field.Options[o].Value, field.Options[o].Label)
				}
			}
		}
	}
	return out
}
