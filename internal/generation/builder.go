package generation

import (
	"fmt"
	"strings"

	"resumesmith/internal/config"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
	"resumesmith/internal/textutil"
)

const (
	avatarPlaceholder = "avatar.png"
	qrPlaceholder     = "qr.png"
)

// buildUserText combines the brief with steering hints about the accent
// color and placeholder images.
func buildUserText(input Input) string {
	parts := []string{strings.TrimSpace(input.Brief)}
	if input.IncludeAccentHint && input.AccentColor != "" {
		parts = append(parts, fmt.Sprintf("Preferred accent color: %s", input.AccentColor))
	}
	if input.Avatar != nil {
		parts = append(parts, fmt.Sprintf(
			"A profile photo was provided; keep the attribute src=%q in the HTML.", avatarPlaceholder))
	}
	if input.QR != nil {
		parts = append(parts, fmt.Sprintf(
			"A LinkedIn QR code was provided; keep the attribute src=%q in the HTML.", qrPlaceholder))
	}
	return strings.Join(parts, "\n\n")
}

// validateInput normalizes the brief and rejects inputs that can never
// produce a valid request. It returns the Input with defaults applied.
func (s *Service) validateInput(input Input) (Input, error) {
	input.Brief = textutil.NormalizeBrief(input.Brief)
	if strings.TrimSpace(input.Brief) == "" {
		return input, services.NewError(services.KindMalformedRequest, "brief is empty")
	}
	if max := s.cfg.Generation.MaxBriefLength; max > 0 && len([]rune(input.Brief)) > max {
		return input, services.NewError(services.KindBriefTooLong,
			"brief is %d characters, limit is %d", len([]rune(input.Brief)), max)
	}

	if input.AccentColor == "" {
		input.AccentColor = s.cfg.Generation.DefaultAccentColor
	}
	if !config.AccentColorValid(input.AccentColor) {
		return input, services.NewError(services.KindInvalidColor,
			"accent color %q is not a #RRGGBB value", input.AccentColor)
	}

	if input.Model == "" {
		input.Model = s.cfg.OpenAI.Model
	}
	if !s.cfg.ModelAllowed(input.Model) {
		return input, services.NewError(services.KindUnsupportedModel,
			"model %q is not in the allowed set", input.Model)
	}

	if input.MaxOutputTokens <= 0 {
		input.MaxOutputTokens = s.cfg.Generation.DefaultMaxTokens
	}
	if min := s.cfg.Generation.MinTokens; input.MaxOutputTokens < min {
		input.MaxOutputTokens = min
	}
	if max := s.cfg.Generation.MaxTokens; max > 0 && input.MaxOutputTokens > max {
		input.MaxOutputTokens = max
	}

	if input.Temperature <= 0 {
		input.Temperature = s.cfg.Generation.DefaultTemperature
	}

	for _, att := range input.Attachments {
		if att.Kind() == payload.KindUnknown {
			return input, services.NewError(services.KindUnsupportedFormat,
				"attachment %s has unsupported type %s", att.Filename, att.MimeType)
		}
	}
	for _, img := range []*payload.Attachment{input.Avatar, input.QR} {
		if img != nil && img.Kind() != payload.KindImage {
			return input, services.NewError(services.KindUnsupportedFormat,
				"%s must be an image, got %s", img.Filename, img.MimeType)
		}
	}
	return input, nil
}

// applyImageOverrides swaps the fixed placeholder filenames in the generated
// document for inline data URIs. Only the first occurrence of each quoting
// style is replaced.
func applyImageOverrides(html string, avatar, qr *payload.Attachment) string {
	replaceFirst := func(doc, name string, att *payload.Attachment) string {
		if att == nil {
			return doc
		}
		uri := payload.DataURI(att.MimeType, att.Data)
		doc = strings.Replace(doc, `src="`+name+`"`, `src="`+uri+`"`, 1)
		doc = strings.Replace(doc, `src='`+name+`'`, `src='`+uri+`'`, 1)
		return doc
	}
	html = replaceFirst(html, avatarPlaceholder, avatar)
	html = replaceFirst(html, qrPlaceholder, qr)
	return html
}
