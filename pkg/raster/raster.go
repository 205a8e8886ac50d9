// Package raster renders PDF pages to bitmaps through MuPDF for the
// scanned-document pipeline.
package raster

import (
	"fmt"
	"image"
	"runtime"

	"github.com/gen2brain/go-fitz"
	"github.com/shirou/gopsutil/v3/mem"
)

// Source renders pages of one PDF file. Render opens a fresh MuPDF
// document per call because fitz documents are not safe for concurrent
// use; the long-lived document only answers metadata queries.
type Source struct {
	doc  *fitz.Document
	path string
}

// OpenSource opens a PDF for rendering.
func OpenSource(path string) (*Source, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	return &Source{doc: doc, path: path}, nil
}

// PageCount returns the number of pages.
func (s *Source) PageCount() int {
	return s.doc.NumPage()
}

// PageSize returns the page bounds in points for the 0-based page.
func (s *Source) PageSize(index int) (width, height float64, err error) {
	rect, err := s.doc.Bound(index)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get page %d bounds: %w", index, err)
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// Render rasterizes the 0-based page at the given DPI. Safe to call from
// multiple goroutines.
func (s *Source) Render(index, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open render worker: %w", err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index, err)
	}
	return img, nil
}

// Close releases the metadata document.
func (s *Source) Close() error {
	return s.doc.Close()
}

// Workers picks a render concurrency level: the configured value when set,
// otherwise the CPU count capped by the page count and by how many
// rendered pages fit in half the available memory.
func Workers(configured, pages int, pageWidthPt, pageHeightPt float64, dpi int) int {
	if pages < 1 {
		return 1
	}
	if configured > 0 {
		if configured > pages {
			return pages
		}
		return configured
	}

	n := runtime.NumCPU()
	if n > pages {
		n = pages
	}
	perPage := pageRenderBytes(pageWidthPt, pageHeightPt, dpi)
	if perPage > 0 {
		if vm, err := mem.VirtualMemory(); err == nil {
			if fit := int(vm.Available / 2 / perPage); fit < n {
				n = fit
			}
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// pageRenderBytes estimates the RGBA footprint of one rendered page.
func pageRenderBytes(widthPt, heightPt float64, dpi int) uint64 {
	scale := float64(dpi) / 72
	px := widthPt * scale * heightPt * scale
	if px <= 0 {
		return 0
	}
	return uint64(px) * 4
}
