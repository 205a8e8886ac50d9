package pdf

// BoundingBox is a rectangular page region. Coordinates follow the PDF
// convention: origin bottom-left, units in points, X1 >= X0 and Y1 >= Y0.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Bottom
	X1 float64 // Right
	Y1 float64 // Top
}

// Width returns the width of the bounding box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box.
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box.
func (b BoundingBox) Area() float64 {
	return b.Width() * b.Height()
}

// Intersects checks if two bounding boxes overlap.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Union returns the smallest box covering both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Pad grows the box by margin on every side, clamped to the page box.
func (b BoundingBox) Pad(margin float64, page BoundingBox) BoundingBox {
	return BoundingBox{
		X0: max(page.X0, b.X0-margin),
		Y0: max(page.Y0, b.Y0-margin),
		X1: min(page.X1, b.X1+margin),
		Y1: min(page.Y1, b.Y1+margin),
	}
}

// Char is a single decoded character positioned on a page. Op is the index
// of the text-showing operation in the page's content stream that drew it,
// so redaction can strip the operation the character came from.
type Char struct {
	Text string
	Box  BoundingBox
	Op   int

	// item locates the character inside its operation's text items, so the
	// rewriter can excise exactly the matched glyphs.
	item int
}

// Word is a contiguous run of characters grouped by position. A word's box
// always lies within its page's bounds.
type Word struct {
	Text  string
	Box   BoundingBox
	Chars []Char
}

// ImagePlacement is one occurrence of an embedded raster image on a page.
// ID identifies the underlying payload: two placements referencing the same
// bytes share one ID, document-wide, even under different resource names.
type ImagePlacement struct {
	Name     string // resource name on the page, e.g. "Im1"
	ID       string // payload digest; identity across pages
	ObjNr    int    // xref object number of the image XObject
	PxWidth  int
	PxHeight int
	Box      BoundingBox // placement region on the page
	Op       int         // index of the Do operation that painted it
}
