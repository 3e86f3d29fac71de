package formdata

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips markup from user-supplied text while keeping the plain
// characters intact, so values are stored unescaped and escaped once on output.
// Text the user typed that merely looks like an entity ("&amp;") is kept as is.
func SanitizeText(raw string) string {
	if !strings.Contains(raw, "<") {
		return raw
	}
	// The tokenizer decodes entities in text, so escape & first to keep
	// literal ampersand sequences through the round trip.
	guarded := strings.ReplaceAll(raw, "&", "&amp;")
	return html.UnescapeString(textSanitizer().Sanitize(guarded))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
