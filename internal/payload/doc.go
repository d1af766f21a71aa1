// Package payload converts user attachments and brief text into the ordered
// content blocks the generation endpoint expects: input_text, input_image,
// and input_file items with base64 data URIs.
package payload
