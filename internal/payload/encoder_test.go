package payload

import (
	"encoding/json"
	"strings"
	"testing"

	"resumesmith/internal/services"
)

func TestEncodeOrdersAttachmentsBeforeText(t *testing.T) {
	encoder := NewEncoder(1024)
	attachments := []Attachment{
		{Filename: "photo.png", MimeType: "image/png", Data: []byte{1, 2, 3}},
		{Filename: "cv.pdf", MimeType: "application/pdf", Data: []byte{4, 5}},
	}
	blocks, err := encoder.Encode(attachments, "brief text")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if _, ok := blocks[0].(ImageBlock); !ok {
		t.Fatalf("block 0 = %T, want ImageBlock", blocks[0])
	}
	if _, ok := blocks[1].(FileBlock); !ok {
		t.Fatalf("block 1 = %T, want FileBlock", blocks[1])
	}
	text, ok := blocks[2].(TextBlock)
	if !ok || text.Text != "brief text" {
		t.Fatalf("block 2 = %#v, want trailing TextBlock", blocks[2])
	}
}

func TestEncodeRejectsOversizeBeforeEncoding(t *testing.T) {
	encoder := NewEncoder(4)
	attachments := []Attachment{
		{Filename: "small.png", MimeType: "image/png", Data: []byte{1}},
		{Filename: "big.pdf", MimeType: "application/pdf", Data: []byte{1, 2, 3, 4, 5}},
	}
	blocks, err := encoder.Encode(attachments, "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if blocks != nil {
		t.Fatal("no partial blocks should be produced")
	}
	if !services.IsKind(err, services.KindPayloadTooLarge) {
		t.Fatalf("kind = %s", services.KindOf(err))
	}
	if !strings.Contains(err.Error(), "big.pdf") {
		t.Fatalf("error should name the attachment: %v", err)
	}
}

func TestEncodeRejectsUnsupportedMime(t *testing.T) {
	encoder := NewEncoder(1024)
	_, err := encoder.Encode([]Attachment{
		{Filename: "archive.zip", MimeType: "application/zip", Data: []byte{1}},
	}, "text")
	if !services.IsKind(err, services.KindUnsupportedFormat) {
		t.Fatalf("kind = %s, err = %v", services.KindOf(err), err)
	}
}

func TestBlockWireShapes(t *testing.T) {
	image := ImageBlock{ImageURL: DataURI("image/png", []byte{1, 2})}
	raw, err := json.Marshal(image)
	if err != nil {
		t.Fatalf("marshal image: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "input_image" {
		t.Fatalf("type = %q", decoded["type"])
	}
	if !strings.HasPrefix(decoded["image_url"], "data:image/png;base64,") {
		t.Fatalf("image_url = %q", decoded["image_url"])
	}

	file := FileBlock{Filename: "cv.pdf", FileData: DataURI("application/pdf", []byte{3})}
	raw, err = json.Marshal(file)
	if err != nil {
		t.Fatalf("marshal file: %v", err)
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "input_file" || decoded["filename"] != "cv.pdf" {
		t.Fatalf("file block = %v", decoded)
	}
}

func TestAttachmentKindNormalizesMime(t *testing.T) {
	cases := map[string]AttachmentKind{
		"image/jpg":                KindImage,
		"IMAGE/PNG":                KindImage,
		"image/webp; charset=none": KindImage,
		"application/pdf":          KindDocument,
		"text/plain":               KindUnknown,
	}
	for mime, want := range cases {
		attachment := Attachment{MimeType: mime}
		if got := attachment.Kind(); got != want {
			t.Errorf("Kind(%q) = %s, want %s", mime, got, want)
		}
	}
}

func TestMimeForFilename(t *testing.T) {
	cases := map[string]string{
		"photo.PNG": "image/png",
		"me.jpeg":   "image/jpeg",
		"cv.pdf":    "application/pdf",
		"notes.txt": "",
	}
	for name, want := range cases {
		if got := MimeForFilename(name); got != want {
			t.Errorf("MimeForFilename(%q) = %q, want %q", name, got, want)
		}
	}
}
