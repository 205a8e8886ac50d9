// Package classify decides whether a document is text-native or scanned.
// The verdict drives which redaction pipeline runs: text-native documents
// get content-stream surgery, scanned ones get bitmap masking.
//
// Classification samples a bounded set of pages rather than reading the
// whole document, so very large files classify in near-constant time. A
// page with fewer extractable tokens than the configured threshold counts
// as image-only; the document is Scanned when image-only pages dominate
// the sample. Hybrid documents resolve by majority.
package classify

import (
	"fmt"

	"github.com/veildocs/redact/pkg/config"
)

// Kind is the document-level verdict.
type Kind int

const (
	// TextNative marks a document with a usable extractable text layer.
	TextNative Kind = iota
	// Scanned marks a document whose pages are effectively full-page
	// images with negligible extractable text.
	Scanned
)

// String returns the verdict name.
func (k Kind) String() string {
	if k == Scanned {
		return "scanned"
	}
	return "text-native"
}

// Sampler supplies per-page token counts. Implementations exist over the
// structured document model and over a lightweight text probe; the
// classifier itself does not care which backs it.
type Sampler interface {
	PageCount() int
	// PageTokens returns the number of extractable word tokens on the
	// 1-based page.
	PageTokens(pageIndex int) (int, error)
}

// PageStats records what the classifier saw on one sampled page.
type PageStats struct {
	PageIndex int
	Tokens    int
	ImageOnly bool
}

// Profile is the evidence behind a verdict, exposed so callers can warn on
// low-text documents without re-reading them.
type Profile struct {
	Sampled           []PageStats
	ImageOnlyFraction float64
}

// Classify samples the document and returns a definite verdict. It fails
// only when no sampled page could be read at all; a per-page probe error
// counts that page as image-only, matching how unreadable text layers
// behave downstream.
func Classify(s Sampler, cfg config.Config) (Kind, Profile, error) {
	pageCount := s.PageCount()
	if pageCount == 0 {
		return TextNative, Profile{}, fmt.Errorf("document has no pages")
	}

	sampled := SamplePages(pageCount, cfg.SampleLeadPages, cfg.SampleInteriorPages)

	profile := Profile{Sampled: make([]PageStats, 0, len(sampled))}
	imageOnly := 0
	readable := 0
	for _, idx := range sampled {
		tokens, err := s.PageTokens(idx)
		stats := PageStats{PageIndex: idx}
		if err != nil {
			stats.ImageOnly = true
		} else {
			readable++
			stats.Tokens = tokens
			stats.ImageOnly = tokens < cfg.MinPageTokens
		}
		if stats.ImageOnly {
			imageOnly++
		}
		profile.Sampled = append(profile.Sampled, stats)
	}

	if readable == 0 {
		// Every probe failed: still a definite verdict, since a document
		// whose text layer cannot be read anywhere must go through the
		// raster pipeline to be protected at all.
		profile.ImageOnlyFraction = 1
		return Scanned, profile, nil
	}

	profile.ImageOnlyFraction = float64(imageOnly) / float64(len(sampled))
	if profile.ImageOnlyFraction > cfg.ScannedMajority {
		return Scanned, profile, nil
	}
	return TextNative, profile, nil
}

// SamplePages picks the pages the classifier inspects: the first lead pages
// plus up to interior pages spread evenly through the rest. Indices are
// 1-based, strictly increasing, and deterministic for a given page count.
func SamplePages(pageCount, lead, interior int) []int {
	if lead < 1 {
		lead = 1
	}
	var pages []int
	for i := 1; i <= pageCount && i <= lead; i++ {
		pages = append(pages, i)
	}
	if pageCount <= lead || interior <= 0 {
		return pages
	}

	remaining := pageCount - lead
	step := remaining / (interior + 1)
	if step == 0 {
		step = 1
	}
	for i := 1; i <= interior; i++ {
		idx := lead + i*step
		if idx > pageCount {
			break
		}
		if len(pages) > 0 && idx <= pages[len(pages)-1] {
			continue
		}
		pages = append(pages, idx)
	}
	return pages
}
