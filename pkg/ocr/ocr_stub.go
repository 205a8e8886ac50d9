//go:build !ocr

// Package ocr recognizes text in rendered page bitmaps so the scanned
// pipeline can locate target phrases.
//
// This is the stub used when the "ocr" build tag is not set; all functions
// return ErrNotEnabled. To enable recognition, install Tesseract and
// rebuild with the tag:
//
//	go build -tags ocr
package ocr

import "image"

// Client is the stub OCR client.
type Client struct{}

// New reports that OCR support is not compiled in.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op on the stub.
func (c *Client) Close() error {
	return nil
}

// SetLanguage reports that OCR support is not compiled in.
func (c *Client) SetLanguage(string) error {
	return ErrNotEnabled
}

// Words reports that OCR support is not compiled in.
func (c *Client) Words(image.Image) ([]Word, error) {
	return nil, ErrNotEnabled
}
