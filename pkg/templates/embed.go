package templates

import (
	"embed"
	"io/fs"
)

//go:embed builtin/*.yaml
var embeddedTemplates embed.FS

// Built-in template ids.
const (
	CustomerOnboardingID = "customer-onboarding"
	ProductOrderID       = "product-order"
	InsuranceDMEID       = "insurance-dme"
)

// EmbeddedFS returns the bundled template files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "builtin")
	if err != nil {
		panic(err)
	}
	return sub
}

// Builtin loads the bundled templates.
func Builtin() (*Store, error) {
	return LoadFS(EmbeddedFS())
}
