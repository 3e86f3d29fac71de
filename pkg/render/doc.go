// Package render defines the renderer seam for wizard steps: the Renderer
// interface and registry, per-request RenderOptions, server error mapping,
// hidden fields, translation and theme resolution.
package render
