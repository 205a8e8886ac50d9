package pdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page is one page of an open Document: its decoded content stream split
// into operations, plus the positioned words and image placements the
// scanner recovered from it.
type Page struct {
	ctx        *model.Context
	pageNumber int
	pageDict   types.Dict
	width      float64
	height     float64

	content []byte
	scanned bool
	ops     []Operation
	chars   []Char
	words   []Word
	images  []ImagePlacement
}

func newPage(ctx *model.Context, pageNumber int) (*Page, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	if pageNumber < 1 || pageNumber > ctx.PageCount {
		return nil, fmt.Errorf("page number %d out of range [1, %d]", pageNumber, ctx.PageCount)
	}

	pageDict, _, attrs, err := ctx.PageDict(pageNumber, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dict: %w", err)
	}

	// Default to US Letter when the MediaBox is missing.
	width, height := 612.0, 792.0
	if attrs != nil && attrs.MediaBox != nil {
		width = attrs.MediaBox.Width()
		height = attrs.MediaBox.Height()
	}

	p := &Page{
		ctx:        ctx,
		pageNumber: pageNumber,
		pageDict:   pageDict,
		width:      width,
		height:     height,
	}
	if err := p.extractContent(); err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}
	return p, nil
}

// extractContent decodes and concatenates the page's content streams.
func (p *Page) extractContent() error {
	contents := p.pageDict["Contents"]
	if contents == nil {
		return nil
	}

	var streams [][]byte
	appendStream := func(indRef types.IndirectRef) {
		sd, _, err := p.ctx.DereferenceStreamDict(indRef)
		if err != nil || sd == nil {
			return
		}
		if err := sd.Decode(); err != nil {
			return
		}
		streams = append(streams, sd.Content)
	}

	switch v := contents.(type) {
	case types.IndirectRef:
		appendStream(v)
	case *types.IndirectRef:
		appendStream(*v)
	case types.Array:
		for _, item := range v {
			switch ref := item.(type) {
			case types.IndirectRef:
				appendStream(ref)
			case *types.IndirectRef:
				appendStream(*ref)
			}
		}
	}

	var combined []byte
	for _, s := range streams {
		combined = append(combined, s...)
		combined = append(combined, '\n')
	}
	p.content = combined
	return nil
}

// scan runs the content scanner once per page.
func (p *Page) scan() {
	if p.scanned {
		return
	}
	p.scanned = true
	if len(p.content) == 0 {
		return
	}
	s := newScanner(p.ctx, p.pageDict)
	s.scan(p.content)
	p.ops = s.ops
	p.chars = s.chars
	p.images = s.images
	p.words = groupWords(p.chars)
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.pageNumber
}

// Box returns the page bounding box.
func (p *Page) Box() BoundingBox {
	return BoundingBox{X0: 0, Y0: 0, X1: p.width, Y1: p.height}
}

// Words returns the page's text layer grouped into positioned words, in
// top-to-bottom, left-to-right order.
func (p *Page) Words() []Word {
	p.scan()
	return p.words
}

// Images returns every image placement on the page in paint order.
func (p *Page) Images() []ImagePlacement {
	p.scan()
	return p.images
}

// Operations returns the parsed content-stream operations.
func (p *Page) Operations() []Operation {
	p.scan()
	return p.ops
}

// Content returns the decoded content stream bytes.
func (p *Page) Content() []byte {
	return p.content
}

// ExtractText returns the page's plain text, one line per baseline group.
func (p *Page) ExtractText() string {
	var lines []string
	var current []string
	var lastY float64
	for i, w := range p.Words() {
		if i > 0 && abs(w.Box.Y0-lastY) > yTolerance {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, w.Text)
		lastY = w.Box.Y0
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return strings.Join(lines, "\n")
}

// Grouping tolerances in points, matching common extractor defaults.
const (
	xTolerance = 3.0
	yTolerance = 3.0
)

// groupWords groups characters into words by position: a new word starts on
// a baseline change or a horizontal gap wider than the tolerance.
func groupWords(chars []Char) []Word {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]Char, len(chars))
	copy(sorted, chars)
	sortCharsByPosition(sorted)

	var words []Word
	var current []Char
	for i := range sorted {
		c := sorted[i]
		if len(current) > 0 {
			last := current[len(current)-1]
			if abs(c.Box.Y0-last.Box.Y0) > yTolerance || c.Box.X0-last.Box.X1 > xTolerance {
				if w, ok := buildWord(current); ok {
					words = append(words, w)
				}
				current = current[:0]
			}
		}
		if strings.TrimSpace(c.Text) == "" {
			if len(current) > 0 {
				if w, ok := buildWord(current); ok {
					words = append(words, w)
				}
				current = current[:0]
			}
			continue
		}
		current = append(current, c)
	}
	if w, ok := buildWord(current); ok {
		words = append(words, w)
	}
	return words
}

func buildWord(chars []Char) (Word, bool) {
	if len(chars) == 0 {
		return Word{}, false
	}
	box := chars[0].Box
	var text strings.Builder
	for _, c := range chars {
		text.WriteString(c.Text)
		box = box.Union(c.Box)
	}
	owned := make([]Char, len(chars))
	copy(owned, chars)
	return Word{Text: text.String(), Box: box, Chars: owned}, true
}

// sortCharsByPosition orders characters top-to-bottom, then left-to-right.
func sortCharsByPosition(chars []Char) {
	sort.SliceStable(chars, func(i, j int) bool {
		a, b := chars[i], chars[j]
		if abs(a.Box.Y0-b.Box.Y0) > yTolerance {
			return a.Box.Y0 > b.Box.Y0
		}
		return a.Box.X0 < b.Box.X0
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
