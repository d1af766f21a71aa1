// Package generation orchestrates resume generation: it validates and
// assembles the request, normalizes attachments, dispatches to the model
// endpoint, validates the returned document, and applies image overrides.
package generation
