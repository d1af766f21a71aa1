package payload

import "resumesmith/internal/services"

// Encoder turns attachments plus brief text into an ordered block sequence.
// Stateless and safe for concurrent use.
type Encoder struct {
	maxFileBytes int
}

// NewEncoder constructs an Encoder enforcing the given per-attachment byte cap.
func NewEncoder(maxFileBytes int) *Encoder {
	return &Encoder{maxFileBytes: maxFileBytes}
}

// Encode produces the wire blocks for a request: attachments first, in upload
// order, then the user text as the final block. The whole batch is validated
// before any encoding happens so an oversized or unsupported attachment never
// leaves partial work behind.
func (e *Encoder) Encode(attachments []Attachment, userText string) ([]Block, error) {
	for _, attachment := range attachments {
		if attachment.Size() > e.maxFileBytes {
			return nil, services.NewError(services.KindPayloadTooLarge,
				"attachment %q is %d bytes; limit is %d bytes",
				attachment.Filename, attachment.Size(), e.maxFileBytes)
		}
		if attachment.Kind() == KindUnknown {
			return nil, services.NewError(services.KindUnsupportedFormat,
				"attachment %q has unsupported type %q",
				attachment.Filename, attachment.MimeType)
		}
	}

	blocks := make([]Block, 0, len(attachments)+1)
	for _, attachment := range attachments {
		switch attachment.Kind() {
		case KindImage:
			blocks = append(blocks, ImageBlock{ImageURL: DataURI(normalizeMime(attachment.MimeType), attachment.Data)})
		case KindDocument:
			blocks = append(blocks, FileBlock{
				Filename: attachment.Filename,
				FileData: DataURI(normalizeMime(attachment.MimeType), attachment.Data),
			})
		}
	}
	if userText != "" {
		blocks = append(blocks, TextBlock{Text: userText})
	}
	return blocks, nil
}
