package pdf

import (
	"bytes"
	"strconv"
	"strings"
)

// Fill is an opaque rectangle painted on top of a page's content.
type Fill struct {
	Box     BoundingBox
	R, G, B float64
}

// FillBlack covers redacted text with a solid black rectangle.
func FillBlack(box BoundingBox) Fill {
	return Fill{Box: box}
}

// FillPlaceholder marks the footprint of a removed image with a light tint
// so the document visibly records that something was taken out.
func FillPlaceholder(box BoundingBox) Fill {
	return Fill{Box: box, R: 0.93, G: 0.90, B: 0.97}
}

// PageEdit accumulates the changes to apply to one page's content stream:
// individual glyphs excised from text-showing operations, whole operations
// dropped (image invocations), and fills painted over the result.
type PageEdit struct {
	excise map[int]map[int]bool
	drop   map[int]bool

	Fills []Fill
}

// ExciseChar schedules a single extracted character for removal from the
// operation that painted it.
func (e *PageEdit) ExciseChar(c Char) {
	if e.excise == nil {
		e.excise = make(map[int]map[int]bool)
	}
	items := e.excise[c.Op]
	if items == nil {
		items = make(map[int]bool)
		e.excise[c.Op] = items
	}
	items[c.item] = true
}

// DropOp schedules a whole operation for removal, identified by its index
// in the page's operation list.
func (e *PageEdit) DropOp(op int) {
	if e.drop == nil {
		e.drop = make(map[int]bool)
	}
	e.drop[op] = true
}

// Empty reports whether the edit would leave the content unchanged.
func (e *PageEdit) Empty() bool {
	return len(e.excise) == 0 && len(e.drop) == 0 && len(e.Fills) == 0
}

// RewriteContent produces a new content stream with the edit applied.
// Untouched operations are copied from their original byte spans verbatim.
// Text operations containing excised glyphs are rebuilt as TJ arrays in
// which each removed glyph becomes a positioning adjustment, so surrounding
// text keeps its exact placement while the glyph codes themselves are gone
// from the file. The original content is bracketed in q/Q so appended fills
// paint in the page's base coordinate space regardless of what graphics
// state the stream leaves behind.
func RewriteContent(content []byte, ops []Operation, edit PageEdit) []byte {
	var out bytes.Buffer
	out.Grow(len(content) + 64*len(edit.Fills))
	out.WriteString("q\n")

	for i := range ops {
		if edit.drop[i] {
			continue
		}
		op := &ops[i]
		if items := edit.excise[i]; len(items) > 0 {
			writeRebuiltTextOp(&out, op, items)
		} else {
			out.Write(content[op.Start:op.End])
		}
		out.WriteByte('\n')
	}

	out.WriteString("Q\n")
	for _, f := range edit.Fills {
		writeFill(&out, f)
	}
	return out.Bytes()
}

// writeRebuiltTextOp re-emits a text-showing operation as a TJ array.
// Kept glyphs are written back from their original source bytes, grouped
// into runs of the same string form; each excised glyph is replaced by the
// adjustment number that reproduces its displacement. The side effects of
// the ' and " operators are reproduced with explicit T*, Tw and Tc
// operations so the rebuilt stream leaves the text state unchanged.
func writeRebuiltTextOp(out *bytes.Buffer, op *Operation, removed map[int]bool) {
	switch op.Operator {
	case "'":
		out.WriteString("T* ")
	case "\"":
		if len(op.operands) >= 2 {
			out.Write(op.operands[0].raw)
			out.WriteString(" Tw ")
			out.Write(op.operands[1].raw)
			out.WriteString(" Tc ")
		}
		out.WriteString("T* ")
	}

	out.WriteByte('[')
	var run []byte
	runHex := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runHex {
			out.WriteByte('<')
			out.Write(run)
			out.WriteByte('>')
		} else {
			out.WriteByte('(')
			out.Write(run)
			out.WriteByte(')')
		}
		run = run[:0]
	}

	for idx, item := range op.text {
		switch item.kind {
		case itemAdjust:
			flush()
			out.Write(item.raw)
			out.WriteByte(' ')
		case itemGlyph:
			if removed[idx] {
				flush()
				out.WriteString(formatNumber(item.adj))
				out.WriteByte(' ')
				continue
			}
			if len(run) > 0 && runHex != item.hexForm {
				flush()
			}
			runHex = item.hexForm
			run = append(run, item.raw...)
		}
	}
	flush()
	out.WriteString("] TJ")
}

func writeFill(out *bytes.Buffer, f Fill) {
	out.WriteString("q ")
	out.WriteString(formatNumber(f.R))
	out.WriteByte(' ')
	out.WriteString(formatNumber(f.G))
	out.WriteByte(' ')
	out.WriteString(formatNumber(f.B))
	out.WriteString(" rg ")
	out.WriteString(formatNumber(f.Box.X0))
	out.WriteByte(' ')
	out.WriteString(formatNumber(f.Box.Y0))
	out.WriteByte(' ')
	out.WriteString(formatNumber(f.Box.Width()))
	out.WriteByte(' ')
	out.WriteString(formatNumber(f.Box.Height()))
	out.WriteString(" re f Q\n")
}

// formatNumber renders a float the way PDF content streams expect, without
// exponent notation and without trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = trimTrailingZeros(s)
	if s == "-0" {
		s = "0"
	}
	return s
}

func trimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
