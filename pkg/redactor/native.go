package redactor

import (
	"fmt"
	"unicode"

	"github.com/veildocs/redact/pkg/audit"
	"github.com/veildocs/redact/pkg/classify"
	"github.com/veildocs/redact/pkg/logo"
	"github.com/veildocs/redact/pkg/match"
	"github.com/veildocs/redact/pkg/pdf"
)

// RunNative redacts a text-native document in place and writes the result
// to outputPath. The matched glyphs are excised from the content streams
// and, when logo removal is on, logo paints and payloads are stripped; an
// opaque fill covers every vacated region.
func RunNative(doc *pdf.Document, outputPath string, targets []match.Target, opts Options) (*Outcome, error) {
	cfg := opts.Config
	log := &audit.Log{}
	pageCount := doc.PageCount()

	// All placements must be observed before the first verdict so the
	// recurrence signal sees the whole document. Verdicts are settled in
	// the detector's first-seen identity order before any page is edited.
	var logoIDs map[string]bool
	if opts.RemoveLogos {
		detector := logo.NewDetector(cfg, pageCount)
		for _, page := range doc.Pages() {
			for _, pl := range page.Images() {
				detector.Observe(page.Number(), pl, page.Box())
			}
		}
		logoIDs = make(map[string]bool)
		for _, id := range detector.Identities() {
			if detector.IsLogo(id) {
				logoIDs[id] = true
			}
		}
	}

	for _, page := range doc.Pages() {
		var edit pdf.PageEdit

		words := page.Words()
		tokens := make([]match.Token, len(words))
		for i, w := range words {
			tokens[i] = match.Token{Text: w.Text, Box: w.Box}
		}

		var regions []pdf.BoundingBox
		for _, m := range match.Find(tokens, targets) {
			box := exciseMatch(&edit, words, m)
			regions = append(regions, box)
			log.Append(page.Number(), audit.ActionTextRedacted,
				fmt.Sprintf("%s at %s", m.Target.Label, formatBox(box)))
		}
		for _, box := range mergeBoxes(regions) {
			edit.Fills = append(edit.Fills, pdf.FillBlack(box.Pad(cfg.RedactionMarginPt, page.Box())))
		}

		if opts.RemoveLogos {
			for _, pl := range page.Images() {
				if !logoIDs[pl.ID] {
					continue
				}
				edit.DropOp(pl.Op)
				if err := page.RemoveImageResource(pl); err != nil {
					return nil, fmt.Errorf("page %d: failed to remove image: %w", page.Number(), err)
				}
				log.Append(page.Number(), audit.ActionLogoRemoved,
					fmt.Sprintf("image %s at %s", pl.Name, formatBox(pl.Box)))

				if opts.AddPlaceholders {
					edit.Fills = append(edit.Fills,
						pdf.FillPlaceholder(pl.Box.Pad(cfg.RedactionMarginPt, page.Box())))
					log.Append(page.Number(), audit.ActionPlaceholderInserted,
						fmt.Sprintf("at %s", formatBox(pl.Box)))
				}
			}
		}

		if err := page.ApplyEdit(edit); err != nil {
			return nil, fmt.Errorf("page %d: %w", page.Number(), err)
		}
		opts.reportProgress(page.Number(), pageCount)
	}

	doc.ScrubInfo()
	if err := doc.WriteFile(outputPath); err != nil {
		return nil, err
	}
	return &Outcome{Kind: classify.TextNative, OutputPath: outputPath, Log: log}, nil
}

// exciseMatch schedules the matched glyphs for removal and returns their
// combined box. Edge punctuation the matcher ignored stays in place, so
// "Smith," loses the name but keeps the comma.
func exciseMatch(edit *pdf.PageEdit, words []pdf.Word, m match.Match) pdf.BoundingBox {
	var box pdf.BoundingBox
	got := false
	for i := m.First; i <= m.Last; i++ {
		for _, c := range coreChars(words[i].Chars, i == m.First, i == m.Last) {
			edit.ExciseChar(c)
			if !got {
				box = c.Box
				got = true
			} else {
				box = box.Union(c.Box)
			}
		}
	}
	if !got {
		return m.Box
	}
	return box
}

// coreChars trims non-word characters from the match edges, mirroring the
// normalization the matcher applied to the tokens.
func coreChars(chars []pdf.Char, trimLead, trimTrail bool) []pdf.Char {
	lo, hi := 0, len(chars)
	if trimLead {
		for lo < hi && !isWordChar(chars[lo].Text) {
			lo++
		}
	}
	if trimTrail {
		for hi > lo && !isWordChar(chars[hi-1].Text) {
			hi--
		}
	}
	return chars[lo:hi]
}

func isWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// mergeBoxes collapses intersecting regions so overlapping matches get one
// covering fill.
func mergeBoxes(boxes []pdf.BoundingBox) []pdf.BoundingBox {
	merged := append([]pdf.BoundingBox(nil), boxes...)
	for {
		changed := false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				if merged[i].Intersects(merged[j]) {
					merged[i] = merged[i].Union(merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					changed = true
					break
				}
			}
		}
		if !changed {
			return merged
		}
	}
}

func formatBox(b pdf.BoundingBox) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f, %.1f)", b.X0, b.Y0, b.X1, b.Y1)
}
