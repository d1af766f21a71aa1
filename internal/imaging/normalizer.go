package imaging

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"resumesmith/internal/services"
)

// Normalizer re-encodes images that exceed the configured dimension or byte
// budget. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	maxSide     int
	jpegQuality int
	maxBytes    int
}

// New constructs a Normalizer. maxSide bounds the largest image dimension,
// jpegQuality is the re-encode quality (1-100), and maxBytes caps the
// resulting payload size.
func New(maxSide, jpegQuality, maxBytes int) *Normalizer {
	return &Normalizer{maxSide: maxSide, jpegQuality: jpegQuality, maxBytes: maxBytes}
}

// Normalize returns image bytes that fit the configured budget along with the
// resulting mime type. Images already within limits are returned unchanged.
// Unrecognized formats fail with an unsupported-format error; images that
// cannot be brought under the byte cap fail rather than being truncated.
func (n *Normalizer) Normalize(data []byte, declaredMime string) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", services.WrapError(services.KindUnsupportedFormat, err,
			"unrecognized image format (declared %s)", declaredMime)
	}

	if cfg.Width <= n.maxSide && cfg.Height <= n.maxSide && len(data) <= n.maxBytes {
		return data, declaredMime, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", services.WrapError(services.KindUnsupportedFormat, err,
			"decode image (declared %s)", declaredMime)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > n.maxSide || height > n.maxSide {
		width, height = scaledDimensions(width, height, n.maxSide)
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.jpegQuality}); err != nil {
		return nil, "", services.WrapError(services.KindUnsupportedFormat, err, "re-encode image")
	}
	if buf.Len() > n.maxBytes {
		return nil, "", services.NewError(services.KindPayloadTooLarge,
			"image is %d bytes after re-encoding; limit is %d bytes", buf.Len(), n.maxBytes)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func scaledDimensions(width, height, maxSide int) (int, int) {
	if width >= height {
		scaled := height * maxSide / width
		if scaled < 1 {
			scaled = 1
		}
		return maxSide, scaled
	}
	scaled := width * maxSide / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxSide
}
