package model

// Decorator enriches a template after it has been loaded, for example by
// filling select options from a product catalogue. Decorators receive a copy;
// the loaded original is never mutated.
type Decorator interface {
	Decorate(*FormTemplate) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormTemplate) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(tpl *FormTemplate) error {
	return fn(tpl)
}

// Decorate clones tpl and runs each decorator against the clone in order.
func Decorate(tpl FormTemplate, decorators ...Decorator) (FormTemplate, error) {
	out := tpl.Clone()
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return FormTemplate{}, err
		}
	}
	return out, nil
}
