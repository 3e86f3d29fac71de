package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage       ChromeClass = "intake-page"
	ClassHeader     ChromeClass = "intake-header"
	ClassForm       ChromeClass = "intake-form"
	ClassProgress   ChromeClass = "intake-progress"
	ClassSection    ChromeClass = "intake-section"
	ClassGrid       ChromeClass = "grid md:grid-cols-2 gap-4"
	ClassAddProduct ChromeClass = "intake-add-product"
	ClassLineItems  ChromeClass = "intake-line-items"
	ClassActions    ChromeClass = "intake-actions"
	ClassErrors     ChromeClass = "intake-errors"
	ClassRedirect   ChromeClass = "intake-redirect"
	ClassComplete   ChromeClass = "intake-complete"
)

// ChromeClasses overrides the class list applied to each chrome element.
// Empty entries keep the defaults.
type ChromeClasses struct {
	Page       string
	Header     string
	Form       string
	Progress   string
	Section    string
	Grid       string
	AddProduct string
	LineItems  string
	Actions    string
	Errors     string
}

func (c ChromeClasses) payload() map[string]string {
	pick := func(override string, fallback ChromeClass) string {
		if cleaned := sanitizeClassList(override); cleaned != "" {
			return cleaned
		}
		return string(fallback)
	}
	return map[string]string{
		"page":        pick(c.Page, ClassPage),
		"header":      pick(c.Header, ClassHeader),
		"form":        pick(c.Form, ClassForm),
		"progress":    pick(c.Progress, ClassProgress),
		"section":     pick(c.Section, ClassSection),
		"grid":        pick(c.Grid, ClassGrid),
		"add_product": pick(c.AddProduct, ClassAddProduct),
		"line_items":  pick(c.LineItems, ClassLineItems),
		"actions":     pick(c.Actions, ClassActions),
		"errors":      pick(c.Errors, ClassErrors),
		"redirect":    string(ClassRedirect),
		"complete":    string(ClassComplete),
	}
}
