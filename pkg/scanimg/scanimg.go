// Package scanimg operates on rendered page bitmaps: painting opaque masks
// over redacted regions and spotting header or footer artwork that recurs
// across pages of a scanned document.
package scanimg

import (
	"image"
	"image/color"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"
)

// Band identifies the page strip a recurring patch came from.
type Band int

const (
	BandTop Band = iota
	BandBottom
)

func (b Band) String() string {
	if b == BandTop {
		return "top"
	}
	return "bottom"
}

// Thumbnail size band patches are reduced to before comparison. Small
// enough to absorb scan noise and skew, large enough to keep a logo
// distinguishable from text lines.
const (
	thumbWidth  = 64
	thumbHeight = 16
)

// Patches differing by less than this mean per-channel distance count as
// the same artwork across pages.
const similarityThreshold = 0.12

// Bands with less luminance spread than this are blank paper and never
// count as recurring artwork.
const blankThreshold = 0.02

// Detector accumulates band patches from rendered pages and reports which
// bands carry artwork recurring across the document.
type Detector struct {
	bandFraction    float64
	recurrenceRatio float64

	thumbs map[Band][]*image.RGBA
}

// NewDetector builds a detector. bandFraction is the height share of the
// page scanned at top and bottom; recurrenceRatio is the share of pages a
// patch must appear on to count as recurring.
func NewDetector(bandFraction, recurrenceRatio float64) *Detector {
	return &Detector{
		bandFraction:    bandFraction,
		recurrenceRatio: recurrenceRatio,
		thumbs:          make(map[Band][]*image.RGBA),
	}
}

// Observe records the top and bottom band of one rendered page. Pages may
// be observed in any order; only the multiset of patches matters.
func (d *Detector) Observe(img image.Image) {
	for _, band := range []Band{BandTop, BandBottom} {
		rect := BandRect(img.Bounds(), band, d.bandFraction)
		d.thumbs[band] = append(d.thumbs[band], thumbnail(img, rect))
	}
}

// Recurring reports the bands whose artwork appears on at least the
// configured share of observed pages. A single-page document never
// recurs.
func (d *Detector) Recurring() []Band {
	var out []Band
	for _, band := range []Band{BandTop, BandBottom} {
		thumbs := d.thumbs[band]
		if len(thumbs) < 2 {
			continue
		}

		// Compare every page against the first non-blank patch.
		var ref *image.RGBA
		for _, t := range thumbs {
			if !isBlank(t) {
				ref = t
				break
			}
		}
		if ref == nil {
			continue
		}

		matches := 0
		for _, t := range thumbs {
			if !isBlank(t) && patchDistance(ref, t) < similarityThreshold {
				matches++
			}
		}
		if float64(matches)/float64(len(thumbs)) >= d.recurrenceRatio {
			out = append(out, band)
		}
	}
	return out
}

// BandRect returns the pixel rectangle of a page band.
func BandRect(bounds image.Rectangle, band Band, fraction float64) image.Rectangle {
	h := int(float64(bounds.Dy()) * fraction)
	if h < 1 {
		h = 1
	}
	if band == BandTop {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+h)
	}
	return image.Rect(bounds.Min.X, bounds.Max.Y-h, bounds.Max.X, bounds.Max.Y)
}

// MaskRects returns a copy of the image with the given rectangles painted
// over in the mask color. Pixels under a mask are gone from the returned
// bitmap, not hidden behind a layer.
func MaskRects(img image.Image, rects []image.Rectangle, c color.Color) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	stddraw.Draw(out, out.Bounds(), img, img.Bounds().Min, stddraw.Src)
	src := image.NewUniform(c)
	for _, r := range rects {
		stddraw.Draw(out, r.Intersect(out.Bounds()), src, image.Point{}, stddraw.Src)
	}
	return out
}

// thumbnail crops a band and reduces it to comparison size.
func thumbnail(img image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, rect, xdraw.Src, nil)
	return dst
}

// patchDistance is the mean per-channel absolute difference between two
// equally sized thumbnails, normalized to [0, 1].
func patchDistance(a, b *image.RGBA) float64 {
	if len(a.Pix) != len(b.Pix) || len(a.Pix) == 0 {
		return 1
	}
	var sum int
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a.Pix)) / 255
}

// isBlank reports whether a thumbnail is uniform paper: its mean absolute
// deviation from the average luminance is below the blank threshold.
func isBlank(t *image.RGBA) bool {
	n := len(t.Pix) / 4
	if n == 0 {
		return true
	}
	lum := make([]float64, 0, n)
	var mean float64
	for i := 0; i < len(t.Pix); i += 4 {
		l := (float64(t.Pix[i]) + float64(t.Pix[i+1]) + float64(t.Pix[i+2])) / 3 / 255
		lum = append(lum, l)
		mean += l
	}
	mean /= float64(n)
	var dev float64
	for _, l := range lum {
		d := l - mean
		if d < 0 {
			d = -d
		}
		dev += d
	}
	return dev/float64(n) < blankThreshold
}
