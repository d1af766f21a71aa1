package htmlcheck

import (
	"strings"

	"resumesmith/internal/services"
)

// How far into the document the opening declaration may appear, and how far
// from the end the closing tag may sit. Generous enough for leading comments
// or trailing whitespace the model sometimes emits.
const (
	headWindow = 512
	tailWindow = 256
)

// Validate checks that text is structurally plausible HTML: non-empty after
// trimming, a doctype or <html opening near the start, and a closing </html>
// near the end. The text itself is never modified.
func Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return services.NewError(services.KindInvalidHTMLResponse, "model returned empty output")
	}

	lower := strings.ToLower(trimmed)
	head := lower
	if len(head) > headWindow {
		head = head[:headWindow]
	}
	if !strings.Contains(head, "<!doctype") && !strings.Contains(head, "<html") {
		return services.NewError(services.KindInvalidHTMLResponse,
			"output does not start with an HTML document declaration")
	}

	tail := lower
	if len(tail) > tailWindow {
		tail = tail[len(tail)-tailWindow:]
	}
	if !strings.Contains(tail, "</html>") {
		return services.NewError(services.KindInvalidHTMLResponse,
			"output is missing a closing </html> tag")
	}
	return nil
}
