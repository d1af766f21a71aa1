package payload

import "strings"

// AttachmentKind distinguishes images, which are normalized and sent inline,
// from documents, which are sent as inline files.
type AttachmentKind string

const (
	KindImage    AttachmentKind = "image"
	KindDocument AttachmentKind = "document"
	KindUnknown  AttachmentKind = "unknown"
)

// Attachment is a user-uploaded artifact destined for a generation request.
// Attachments are immutable once created; the image normalizer produces a new
// Attachment rather than mutating the original.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

var imageMimes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

var documentMimes = map[string]struct{}{
	"application/pdf": {},
}

// Kind classifies the attachment by declared mime type.
func (a Attachment) Kind() AttachmentKind {
	mime := normalizeMime(a.MimeType)
	if _, ok := imageMimes[mime]; ok {
		return KindImage
	}
	if _, ok := documentMimes[mime]; ok {
		return KindDocument
	}
	return KindUnknown
}

// Size returns the attachment payload size in bytes.
func (a Attachment) Size() int { return len(a.Data) }

func normalizeMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if mime == "image/jpg" || mime == "image/pjpeg" {
		return "image/jpeg"
	}
	return mime
}

// MimeForFilename guesses a mime type from a filename extension. Returns an
// empty string for unrecognized extensions.
func MimeForFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	default:
		return ""
	}
}
