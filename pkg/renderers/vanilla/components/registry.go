package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	rendertemplate "github.com/rvalen1123/msc-admin-assist-sub001/pkg/render/template"
)

// Renderer writes the control markup for one field into buf. The label and
// wrapper are drawn by the caller.
type Renderer func(buf *bytes.Buffer, field model.FormField, data ComponentData) error

// ComponentData carries the current value and rendering helpers.
type ComponentData struct {
	Template  rendertemplate.TemplateRenderer
	ControlID string
	// Value is the bound formData value formatted as text.
	Value   string
	Checked bool
	Invalid bool
	// SelectPlaceholder labels the empty first option of select controls.
	SelectPlaceholder string
}

// Descriptor bundles a control renderer with the stylesheets it needs.
type Descriptor struct {
	Type        model.FieldType
	Renderer    Renderer
	Stylesheets []string
}

// Registry maps field types to control renderers. Callers can override the
// defaults per type.
type Registry struct {
	mu         sync.RWMutex
	components map[model.FieldType]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[model.FieldType]Descriptor),
	}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for fieldType, descriptor := range r.components {
		cloned.components[fieldType] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with a field type. Existing entries are
// replaced.
func (r *Registry) Register(fieldType model.FieldType, descriptor Descriptor) error {
	if fieldType = normalize(fieldType); fieldType == "" {
		return fmt.Errorf("components: field type is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", fieldType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Type = fieldType
	r.components[fieldType] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(fieldType model.FieldType, descriptor Descriptor) {
	if err := r.Register(fieldType, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor for a field type.
func (r *Registry) Descriptor(fieldType model.FieldType) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(fieldType)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Types returns the registered field types, sorted.
func (r *Registry) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.FieldType, 0, len(r.components))
	for fieldType := range r.components {
		types = append(types, fieldType)
	}
	slices.Sort(types)
	return types
}

// Stylesheets resolves the deduplicated stylesheets for the given types in
// first-seen order.
func (r *Registry) Stylesheets(types []model.FieldType) []string {
	if len(types) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, fieldType := range types {
		descriptor, ok := r.components[normalize(fieldType)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seen[href]; exists {
				continue
			}
			seen[href] = struct{}{}
			out = append(out, href)
		}
	}
	return out
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Type:        src.Type,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
	}
}

func normalize(fieldType model.FieldType) model.FieldType {
	return model.FieldType(strings.ToLower(strings.TrimSpace(string(fieldType))))
}
