//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestNewReturnsErrNotEnabled(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("New() error = %v, want ErrNotEnabled", err)
	}
	if client != nil {
		t.Error("New() returned a client without OCR support")
	}
}

func TestStubMethods(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}

	c := &Client{}
	if _, err := c.Words(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Words error = %v, want ErrNotEnabled", err)
	}
	if err := c.SetLanguage("eng"); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("SetLanguage error = %v, want ErrNotEnabled", err)
	}
}
