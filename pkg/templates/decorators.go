package templates

import (
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// WithProductCatalogue fills the options of every add-product "product"
// select with the supplied catalogue.
func WithProductCatalogue(options []model.Option) model.Decorator {
	return model.DecoratorFunc(func(tpl *model.FormTemplate) error {
		for i := range tpl.Steps {
			for j := range tpl.Steps[i].Sections {
				fields := tpl.Steps[i].Sections[j].Fields
				for k := range fields {
					if fields[k].ID == model.FieldProduct && fields[k].Type == model.FieldTypeSelect {
						fields[k].Options = append([]model.Option(nil), options...)
					}
				}
			}
		}
		return nil
	})
}

// WithSigningDefault sets the fallback signing URL on templates that declare
// signing but carry no default.
func WithSigningDefault(url string) model.Decorator {
	return model.DecoratorFunc(func(tpl *model.FormTemplate) error {
		if url != "" && tpl.Signing != nil && tpl.Signing.Default == "" {
			tpl.Signing.Default = url
		}
		return nil
	})
}
