package generation

import "resumesmith/internal/payload"

// Input is a fully user-supplied generation request before validation.
type Input struct {
	Brief             string
	AccentColor       string
	IncludeAccentHint bool
	Model             string
	MaxOutputTokens   int
	Temperature       float64

	// Attachments are general context files (images or PDFs) sent to the
	// model alongside the brief.
	Attachments []payload.Attachment
	// Avatar and QR are optional images referenced by the generated
	// document through fixed placeholder filenames.
	Avatar *payload.Attachment
	QR     *payload.Attachment
}

// Result is a completed generation.
type Result struct {
	RequestID string
	Model     string
	HTML      string
}
