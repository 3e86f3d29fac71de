package vanilla

import (
	"sort"
	"strings"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
)

// controlID is the DOM id of a field's control; labels bind to it.
func controlID(fieldID string) string {
	trimmed := strings.TrimSpace(fieldID)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}

// sanitizeClassList drops the reserved fg- prefix from caller class lists.
func sanitizeClassList(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fg-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

func hiddenPayload(fields []render.HiddenField) []map[string]string {
	out := make([]map[string]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func cssVarsPayload(theme *render.ThemeConfig) []map[string]string {
	if theme == nil || len(theme.CSSVars) == 0 {
		return nil
	}
	names := make([]string, 0, len(theme.CSSVars))
	for name := range theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]map[string]string, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]string{"name": name, "value": theme.CSSVars[name]})
	}
	return out
}

func localeOrDefault(locale string) string {
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		return trimmed
	}
	return "en"
}
