// Package pdf is the structured document model behind the text-native
// redaction pipeline. It opens a PDF through pdfcpu, exposes pages as
// positioned words and image placements, and supports the irreversible
// mutations redaction needs: stripping text-showing operations, dropping
// image paints and payloads, and painting fill rectangles, followed by
// atomic serialization.
package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is an open PDF backed by a pdfcpu context. A Document is scoped
// to one redaction call: open, mutate, serialize, discard. Nothing is
// cached between calls.
type Document struct {
	ctx   *model.Context
	path  string
	pages []*Page
}

// Open parses and validates a PDF file. A file that cannot be interpreted
// as a PDF fails here and nowhere later.
func Open(path string) (*Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	doc := &Document{ctx: ctx, path: path}
	if err := doc.initializePages(); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}
	return doc, nil
}

func (d *Document) initializePages() error {
	pageCount := d.ctx.PageCount
	d.pages = make([]*Page, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := newPage(d.ctx, i)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}
	return nil
}

// Path returns the source file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the 1-based page.
func (d *Document) Page(pageIndex int) (*Page, error) {
	if pageIndex < 1 || pageIndex > len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [1, %d]", pageIndex, len(d.pages))
	}
	return d.pages[pageIndex-1], nil
}

// Pages returns all pages in order.
func (d *Document) Pages() []*Page {
	return d.pages
}

// Close releases the document.
func (d *Document) Close() error {
	d.ctx = nil
	d.pages = nil
	return nil
}
