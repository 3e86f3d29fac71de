// Package templates loads wizard FormTemplates from YAML or JSON files, ships
// the built-in intake templates and derives templates from OpenAPI request
// bodies.
package templates
