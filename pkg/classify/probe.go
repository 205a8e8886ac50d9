package classify

import (
	"fmt"
	"io"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

// TextProbe is a Sampler backed by the ledongthuc/pdf reader. It decodes
// only the plain text of the pages the classifier asks about, which is much
// cheaper than building the full positioned document model and is all the
// verdict needs.
type TextProbe struct {
	file   io.Closer
	reader *lpdf.Reader
}

// OpenTextProbe opens a read-only text probe over the file.
func OpenTextProbe(path string) (*TextProbe, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text probe: %w", err)
	}
	return &TextProbe{file: f, reader: r}, nil
}

// PageCount returns the number of pages in the document.
func (t *TextProbe) PageCount() int {
	return t.reader.NumPage()
}

// PageTokens counts whitespace-separated tokens on the 1-based page.
func (t *TextProbe) PageTokens(pageIndex int) (int, error) {
	page := t.reader.Page(pageIndex)
	if page.V.IsNull() {
		return 0, fmt.Errorf("page %d not found", pageIndex)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text from page %d: %w", pageIndex, err)
	}
	return len(strings.Fields(text)), nil
}

// Close releases the underlying file.
func (t *TextProbe) Close() error {
	return t.file.Close()
}
