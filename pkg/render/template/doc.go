// Package template defines the engine-agnostic interface wizard renderers use
// to execute page templates. The gotemplate subpackage provides the pongo2
// implementation.
package template
