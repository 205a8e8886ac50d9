// Package logo flags embedded raster images as organizational branding.
// The heuristics are tuned for precision over recall: erasing unrelated
// content is worse than missing a logo, so a verdict of "logo" needs either
// the strongest available signal (the same payload recurring across the
// document) or two weaker ones together (header/footer placement and a
// logo-sized footprint).
package logo

import (
	"github.com/veildocs/redact/pkg/config"
	"github.com/veildocs/redact/pkg/pdf"
)

// observation is one placement of an image payload on a page.
type observation struct {
	pageIndex int
	box       pdf.BoundingBox
	pageBox   pdf.BoundingBox
}

// Detector evaluates image identities against the logo heuristics. It is
// scoped to a single redaction call: observations and verdicts accumulate
// here and are discarded with it, never shared across calls.
type Detector struct {
	cfg       config.Config
	pageCount int
	seen      map[string][]observation
	pages     map[string]map[int]bool
	verdicts  map[string]bool
}

// NewDetector creates a detector for a document with the given page count.
func NewDetector(cfg config.Config, pageCount int) *Detector {
	return &Detector{
		cfg:       cfg,
		pageCount: pageCount,
		seen:      make(map[string][]observation),
		pages:     make(map[string]map[int]bool),
		verdicts:  make(map[string]bool),
	}
}

// Observe records one placement of an image. All placements must be
// observed before the first IsLogo call so the recurrence signal sees the
// whole document.
func (d *Detector) Observe(pageIndex int, img pdf.ImagePlacement, pageBox pdf.BoundingBox) {
	d.seen[img.ID] = append(d.seen[img.ID], observation{
		pageIndex: pageIndex,
		box:       img.Box,
		pageBox:   pageBox,
	})
	if d.pages[img.ID] == nil {
		d.pages[img.ID] = make(map[int]bool)
	}
	d.pages[img.ID][pageIndex] = true
}

// IsLogo returns the verdict for an image identity. The verdict is computed
// once per distinct identity and cached, so repeated occurrences of the
// same asset cost nothing and always agree.
func (d *Detector) IsLogo(id string) bool {
	if verdict, ok := d.verdicts[id]; ok {
		return verdict
	}
	verdict := d.evaluate(id)
	d.verdicts[id] = verdict
	return verdict
}

func (d *Detector) evaluate(id string) bool {
	obs := d.seen[id]
	if len(obs) == 0 {
		return false
	}

	// Recurrence across the document is the strongest discriminator
	// available without a trained classifier: letterheads and footers
	// repeat, content images do not. It decides alone, regardless of
	// position or size.
	if d.pageCount > 1 {
		ratio := float64(len(d.pages[id])) / float64(d.pageCount)
		if ratio >= d.cfg.RecurrenceRatio {
			return true
		}
	}

	// Otherwise both weak signals must agree on at least one placement.
	for _, o := range obs {
		if d.inBand(o) && d.inSizeEnvelope(o) {
			return true
		}
	}
	return false
}

// inBand reports whether the placement sits in the header or footer band.
func (d *Detector) inBand(o observation) bool {
	h := o.pageBox.Height()
	if h <= 0 {
		return false
	}
	headerY := o.pageBox.Y1 - h*d.cfg.BandFraction
	footerY := o.pageBox.Y0 + h*d.cfg.BandFraction
	return o.box.Y0 >= headerY || o.box.Y1 <= footerY
}

// inSizeEnvelope reports whether the placement has a logo-sized footprint:
// long edge inside the configured envelope and area well below a full-page
// scan or embedded photograph.
func (d *Detector) inSizeEnvelope(o observation) bool {
	long := o.box.Width()
	if o.box.Height() > long {
		long = o.box.Height()
	}
	if long < d.cfg.LogoMinEdgePt || long > d.cfg.LogoMaxEdgePt {
		return false
	}
	pageArea := o.pageBox.Area()
	if pageArea <= 0 {
		return false
	}
	return o.box.Area() <= pageArea*d.cfg.LogoMaxAreaFrac
}

// Identities returns the distinct observed image identities in first-seen
// page order, so iteration over verdicts is deterministic.
func (d *Detector) Identities() []string {
	type firstSeen struct {
		id   string
		page int
	}
	var order []firstSeen
	for id, obs := range d.seen {
		order = append(order, firstSeen{id: id, page: obs[0].pageIndex})
	}
	// Insertion sort by first page, then id, keeps this dependency-free
	// and stable for the handful of identities a document carries.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if a.page < b.page || (a.page == b.page && a.id <= b.id) {
				break
			}
			order[j-1], order[j] = b, a
		}
	}
	ids := make([]string, len(order))
	for i, o := range order {
		ids[i] = o.id
	}
	return ids
}
