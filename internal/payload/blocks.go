package payload

import (
	"encoding/base64"
	"encoding/json"
)

// Block is a typed unit of request payload understood by the Responses API.
type Block interface {
	blockType() string
}

// TextBlock carries a plain text segment.
type TextBlock struct {
	Text string
}

func (TextBlock) blockType() string { return "input_text" }

// MarshalJSON emits the input_text wire shape.
func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: b.blockType(), Text: b.Text})
}

// ImageBlock carries an inline image as a base64 data URI.
type ImageBlock struct {
	ImageURL string
}

func (ImageBlock) blockType() string { return "input_image" }

// MarshalJSON emits the input_image wire shape.
func (b ImageBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		ImageURL string `json:"image_url"`
	}{Type: b.blockType(), ImageURL: b.ImageURL})
}

// FileBlock carries an inline document as a base64 data URI plus its filename.
type FileBlock struct {
	Filename string
	FileData string
}

func (FileBlock) blockType() string { return "input_file" }

// MarshalJSON emits the input_file wire shape.
func (b FileBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Filename string `json:"filename"`
		FileData string `json:"file_data"`
	}{Type: b.blockType(), Filename: b.Filename, FileData: b.FileData})
}

// DataURI builds a base64 data URI for the given payload.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
