// Package redactor drives the two redaction pipelines. The text-native
// pipeline edits the document's content streams in place: matched glyphs
// and logo paints are removed from the streams and payloads, then fills are
// painted over the vacated regions. The scanned pipeline rasterizes every
// page, masks regions on the bitmaps, and assembles an image-only output
// document. Both produce an Outcome whose audit log accounts for every
// action taken.
package redactor

import (
	"github.com/veildocs/redact/pkg/audit"
	"github.com/veildocs/redact/pkg/classify"
	"github.com/veildocs/redact/pkg/config"
)

// Options carries the per-call settings shared by both pipelines.
type Options struct {
	Config          config.Config
	RemoveLogos     bool
	AddPlaceholders bool

	// Progress, when set, is called after each page completes. It is
	// advisory only and must not block.
	Progress func(pageIndex, pageCount int)
}

// Outcome is the result of a successful redaction run. Note records an
// accepted option combination that had no effect on this run; it is empty
// otherwise.
type Outcome struct {
	Kind       classify.Kind
	OutputPath string
	Log        *audit.Log
	Note       string
}

func (o Options) reportProgress(pageIndex, pageCount int) {
	if o.Progress != nil {
		o.Progress(pageIndex, pageCount)
	}
}
