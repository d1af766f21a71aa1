// Package imaging bounds the size of image attachments before they are
// encoded into a generation request. Oversized images are downscaled and
// re-encoded as JPEG; compliant images pass through untouched.
package imaging
