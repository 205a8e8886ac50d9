package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Operation is one content-stream operation with its byte span in the
// page's decoded content, so operations can be copied, replaced, or dropped
// during rewriting without re-serializing untouched ones.
type Operation struct {
	Operator string
	Start    int
	End      int

	operands []token
	text     []textItem
}

// textItem is one element of a text-showing operation: either a run of
// glyph codes (one item per decoded character) or a positioning adjustment
// from a TJ array. Items keep their raw source bytes so kept characters are
// re-emitted byte-identically.
type textItem struct {
	kind    itemKind
	raw     []byte  // glyph code bytes as written, or the adjustment literal
	decoded string  // decoded character (glyph items)
	advance float64 // text-space displacement of this item
	adj     float64 // TJ number reproducing the displacement if the glyph is excised
	hexForm bool    // glyph came from a hex string
	size    float64 // font size in effect, for adjustment arithmetic
}

type itemKind int

const (
	itemGlyph itemKind = iota
	itemAdjust
)

type tokKind int

const (
	tokNumber tokKind = iota
	tokString
	tokHex
	tokName
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
	tokKeyword
)

type token struct {
	kind  tokKind
	raw   []byte
	start int
	end   int
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix struct {
	a, b, c, d, e, f float64
}

func identity() matrix {
	return matrix{a: 1, d: 1}
}

func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.b*n.c,
		b: m.a*n.b + m.b*n.d,
		c: m.c*n.a + m.d*n.c,
		d: m.c*n.b + m.d*n.d,
		e: m.e*n.a + m.f*n.c + n.e,
		f: m.e*n.b + m.f*n.d + n.f,
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// fontInfo is what the scanner needs to know about a page font: how to
// decode its glyph codes. Metrics are approximated per character class, the
// same trade-off pdfplumber-style extractors make without full font
// programs.
type fontInfo struct {
	name    string
	cmap    *toUnicodeCMap
	twoByte bool
}

// imageInfo is a resolved image XObject from the page resources.
type imageInfo struct {
	objNr    int
	pxWidth  int
	pxHeight int
	id       string
}

// scanner walks a decoded content stream and accumulates operations,
// positioned characters, and image placements.
type scanner struct {
	ctx      *model.Context
	pageDict types.Dict

	fonts    map[string]*fontInfo
	xobjects map[string]*imageInfo

	ops    []Operation
	chars  []Char
	images []ImagePlacement

	// Graphics state.
	ctm      matrix
	ctmStack []matrix

	// Text state.
	font      *fontInfo
	fontSize  float64
	charSpace float64
	wordSpace float64
	hscale    float64
	leading   float64
	tm        matrix
	tlm       matrix
}

func newScanner(ctx *model.Context, pageDict types.Dict) *scanner {
	s := &scanner{
		ctx:      ctx,
		pageDict: pageDict,
		fonts:    make(map[string]*fontInfo),
		xobjects: make(map[string]*imageInfo),
		ctm:      identity(),
		fontSize: 12,
		hscale:   100,
		tm:       identity(),
		tlm:      identity(),
	}
	s.loadResources()
	return s
}

// loadResources resolves the fonts and image XObjects the content stream
// can reference by name.
func (s *scanner) loadResources() {
	res := s.resolveDict(s.pageDict["Resources"])
	if res == nil {
		return
	}
	if fontDict := s.resolveDict(res["Font"]); fontDict != nil {
		for name, obj := range fontDict {
			fi := &fontInfo{name: name}
			if fd := s.resolveDict(obj); fd != nil {
				if data := s.streamContent(fd["ToUnicode"]); len(data) > 0 {
					if cm, err := parseToUnicodeCMap(data); err == nil {
						fi.cmap = cm
						fi.twoByte = cm.twoByte
					}
				}
				if sub, ok := fd["Subtype"].(types.Name); ok && sub == "Type0" {
					fi.twoByte = true
				}
			}
			s.fonts[name] = fi
		}
	}
	if xobjDict := s.resolveDict(res["XObject"]); xobjDict != nil {
		for name, obj := range xobjDict {
			indRef, ok := obj.(types.IndirectRef)
			if !ok {
				if p, ok2 := obj.(*types.IndirectRef); ok2 {
					indRef = *p
				} else {
					continue
				}
			}
			sd, _, err := s.ctx.DereferenceStreamDict(indRef)
			if err != nil || sd == nil {
				continue
			}
			if sub, ok := sd.Dict["Subtype"].(types.Name); !ok || sub != "Image" {
				continue
			}
			info := &imageInfo{objNr: indRef.ObjectNumber.Value()}
			if w, ok := sd.Dict["Width"].(types.Integer); ok {
				info.pxWidth = w.Value()
			}
			if h, ok := sd.Dict["Height"].(types.Integer); ok {
				info.pxHeight = h.Value()
			}
			payload := sd.Raw
			if len(payload) == 0 {
				payload = sd.Content
			}
			sum := sha256.Sum256(payload)
			info.id = hex.EncodeToString(sum[:8])
			s.xobjects[name] = info
		}
	}
}

func (s *scanner) resolveDict(obj types.Object) types.Dict {
	switch v := obj.(type) {
	case nil:
		return nil
	case types.Dict:
		return v
	case types.IndirectRef, *types.IndirectRef:
		d, err := s.ctx.DereferenceDict(obj)
		if err != nil {
			return nil
		}
		return d
	}
	return nil
}

func (s *scanner) streamContent(obj types.Object) []byte {
	var indRef types.IndirectRef
	switch v := obj.(type) {
	case types.IndirectRef:
		indRef = v
	case *types.IndirectRef:
		indRef = *v
	default:
		return nil
	}
	sd, _, err := s.ctx.DereferenceStreamDict(indRef)
	if err != nil || sd == nil {
		return nil
	}
	if err := sd.Decode(); err != nil {
		return nil
	}
	return sd.Content
}

// scan tokenizes the content and interprets each operation.
func (s *scanner) scan(content []byte) {
	lex := &lexer{data: content}
	var operands []token
	opStart := -1

	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		if tok.kind != tokKeyword {
			if opStart < 0 {
				opStart = tok.start
			}
			operands = append(operands, tok)
			continue
		}

		start := tok.start
		if opStart >= 0 {
			start = opStart
		}
		op := Operation{
			Operator: string(tok.raw),
			Start:    start,
			End:      tok.end,
			operands: operands,
		}
		if op.Operator == "BI" {
			// Inline image: consume everything through EI as one opaque
			// operation.
			op.End = lex.skipInlineImage()
		}
		s.interpret(&op)
		s.ops = append(s.ops, op)
		operands = nil
		opStart = -1
	}
}

func (s *scanner) interpret(op *Operation) {
	args := op.operands
	switch op.Operator {
	case "q":
		s.ctmStack = append(s.ctmStack, s.ctm)
	case "Q":
		if n := len(s.ctmStack); n > 0 {
			s.ctm = s.ctmStack[n-1]
			s.ctmStack = s.ctmStack[:n-1]
		}
	case "cm":
		if len(args) >= 6 {
			m := matrix{
				a: num(args[0]), b: num(args[1]),
				c: num(args[2]), d: num(args[3]),
				e: num(args[4]), f: num(args[5]),
			}
			s.ctm = m.mul(s.ctm)
		}
	case "BT":
		s.tm = identity()
		s.tlm = identity()
	case "Tf":
		if len(args) >= 2 {
			name := strings.TrimPrefix(string(args[0].raw), "/")
			s.font = s.fonts[name]
			s.fontSize = num(args[1])
		}
	case "Td":
		if len(args) >= 2 {
			s.translateLine(num(args[0]), num(args[1]))
		}
	case "TD":
		if len(args) >= 2 {
			s.leading = -num(args[1])
			s.translateLine(num(args[0]), num(args[1]))
		}
	case "Tm":
		if len(args) >= 6 {
			s.tlm = matrix{
				a: num(args[0]), b: num(args[1]),
				c: num(args[2]), d: num(args[3]),
				e: num(args[4]), f: num(args[5]),
			}
			s.tm = s.tlm
		}
	case "T*":
		s.translateLine(0, -s.leading)
	case "TL":
		if len(args) >= 1 {
			s.leading = num(args[0])
		}
	case "Tc":
		if len(args) >= 1 {
			s.charSpace = num(args[0])
		}
	case "Tw":
		if len(args) >= 1 {
			s.wordSpace = num(args[0])
		}
	case "Tz":
		if len(args) >= 1 {
			s.hscale = num(args[0])
		}
	case "Tj":
		if len(args) >= 1 {
			s.showString(op, args[0])
		}
	case "'":
		s.translateLine(0, -s.leading)
		if len(args) >= 1 {
			s.showString(op, args[0])
		}
	case "\"":
		if len(args) >= 3 {
			s.wordSpace = num(args[0])
			s.charSpace = num(args[1])
			s.translateLine(0, -s.leading)
			s.showString(op, args[2])
		}
	case "TJ":
		s.showArray(op, args)
	case "Do":
		if len(args) >= 1 {
			name := strings.TrimPrefix(string(args[0].raw), "/")
			if info, ok := s.xobjects[name]; ok {
				s.placeImage(op, name, info)
			}
		}
	}
}

func (s *scanner) translateLine(tx, ty float64) {
	s.tlm = matrix{a: 1, d: 1, e: tx, f: ty}.mul(s.tlm)
	s.tm = s.tlm
}

// placeImage records an image paint. The placement box is the CTM image of
// the unit square the XObject is drawn into.
func (s *scanner) placeImage(op *Operation, name string, info *imageInfo) {
	x0, y0 := s.ctm.apply(0, 0)
	x1, y1 := s.ctm.apply(1, 1)
	xa, ya := s.ctm.apply(1, 0)
	xb, yb := s.ctm.apply(0, 1)

	box := BoundingBox{
		X0: min(min(x0, x1), min(xa, xb)),
		Y0: min(min(y0, y1), min(ya, yb)),
		X1: max(max(x0, x1), max(xa, xb)),
		Y1: max(max(y0, y1), max(ya, yb)),
	}
	s.images = append(s.images, ImagePlacement{
		Name:     name,
		ID:       info.id,
		ObjNr:    info.objNr,
		PxWidth:  info.pxWidth,
		PxHeight: info.pxHeight,
		Box:      box,
		Op:       len(s.ops),
	})
}

// showString emits one glyph item per decoded character of a string token.
func (s *scanner) showString(op *Operation, tok token) {
	for _, g := range s.decodeStringToken(tok) {
		s.emitGlyph(op, g)
	}
}

// showArray handles TJ: strings show text, numbers adjust the position and
// are preserved as items so rewriting keeps the original kerning.
func (s *scanner) showArray(op *Operation, args []token) {
	for _, tok := range args {
		switch tok.kind {
		case tokString, tokHex:
			for _, g := range s.decodeStringToken(tok) {
				s.emitGlyph(op, g)
			}
		case tokNumber:
			n := num(tok)
			disp := -n / 1000 * s.fontSize * (s.hscale / 100)
			s.tm = matrix{a: 1, d: 1, e: disp}.mul(s.tm)
			op.text = append(op.text, textItem{
				kind: itemAdjust,
				raw:  append([]byte(nil), tok.raw...),
				size: s.fontSize,
			})
		}
	}
}

// glyph is one decoded character with its source bytes.
type glyph struct {
	text    string
	raw     []byte
	hexForm bool
	isSpace bool
}

// codeUnit is one raw byte of a string operand with its source span, before
// grouping into glyph codes.
type codeUnit struct {
	value byte
	raw   []byte
}

// emitGlyph positions one character, records it, and advances the text
// matrix.
func (s *scanner) emitGlyph(op *Operation, g glyph) {
	size := s.fontSize
	em := charWidthEm(g.text)
	advance := em * size
	if g.isSpace {
		advance += s.wordSpace
	}
	advance += s.charSpace
	advance *= s.hscale / 100

	x0, y0 := s.ctm.apply(s.tm.e, s.tm.f)
	next := matrix{a: 1, d: 1, e: advance}.mul(s.tm)
	x1, _ := s.ctm.apply(next.e, next.f)
	if x1 < x0+0.1 {
		x1 = x0 + 0.1
	}

	height := size * s.tm.d * s.ctm.d
	if height <= 0 {
		height = size
	}

	item := textItem{
		kind:    itemGlyph,
		raw:     g.raw,
		decoded: g.text,
		advance: advance,
		hexForm: g.hexForm,
		size:    size,
	}
	if denom := size * s.hscale / 100; denom != 0 {
		item.adj = -1000 * advance / denom
	}
	op.text = append(op.text, item)

	if !g.isSpace && g.text != "" {
		s.chars = append(s.chars, Char{
			Text: g.text,
			Box:  BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y0 + height},
			Op:   len(s.ops),
			item: len(op.text) - 1,
		})
	} else {
		// Spaces still occupy an item slot; record them so word grouping
		// can split on them via the gap they leave.
		s.chars = append(s.chars, Char{
			Text: " ",
			Box:  BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y0 + height},
			Op:   len(s.ops),
			item: len(op.text) - 1,
		})
	}

	s.tm = next
}

// decodeStringToken splits a string token into glyphs, keeping the exact
// source bytes of each glyph code.
func (s *scanner) decodeStringToken(tok token) []glyph {
	switch tok.kind {
	case tokString:
		return s.decodeLiteral(tok.raw)
	case tokHex:
		return s.decodeHex(tok.raw)
	}
	return nil
}

// decodeLiteral walks the bytes of a (...) string, resolving escapes while
// remembering each code's raw span.
func (s *scanner) decodeLiteral(raw []byte) []glyph {
	inner := raw[1 : len(raw)-1]
	var units []codeUnit

	for i := 0; i < len(inner); {
		start := i
		b := inner[i]
		if b == '\\' && i+1 < len(inner) {
			e := inner[i+1]
			switch {
			case e >= '0' && e <= '7':
				j := i + 1
				v := 0
				for j < len(inner) && j < i+4 && inner[j] >= '0' && inner[j] <= '7' {
					v = v*8 + int(inner[j]-'0')
					j++
				}
				units = append(units, codeUnit{value: byte(v), raw: inner[start:j]})
				i = j
				continue
			case e == 'n':
				units = append(units, codeUnit{value: '\n', raw: inner[start : i+2]})
			case e == 'r':
				units = append(units, codeUnit{value: '\r', raw: inner[start : i+2]})
			case e == 't':
				units = append(units, codeUnit{value: '\t', raw: inner[start : i+2]})
			case e == 'b':
				units = append(units, codeUnit{value: '\b', raw: inner[start : i+2]})
			case e == 'f':
				units = append(units, codeUnit{value: '\f', raw: inner[start : i+2]})
			case e == '\n':
				// Line continuation produces no code.
				i += 2
				continue
			default:
				units = append(units, codeUnit{value: e, raw: inner[start : i+2]})
			}
			i += 2
			continue
		}
		units = append(units, codeUnit{value: b, raw: inner[start : i+1]})
		i++
	}

	return s.unitsToGlyphs(units, false)
}

// decodeHex walks the digits of a <...> string two per byte.
func (s *scanner) decodeHex(raw []byte) []glyph {
	inner := raw[1 : len(raw)-1]
	var units []codeUnit
	var digits []byte
	var spans []int

	for i, b := range inner {
		if isHexDigit(b) {
			digits = append(digits, b)
			spans = append(spans, i)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
		spans = append(spans, len(inner)-1)
	}
	for i := 0; i+1 < len(digits); i += 2 {
		v := hexVal(digits[i])<<4 | hexVal(digits[i+1])
		units = append(units, codeUnit{
			value: byte(v),
			raw:   inner[spans[i] : spans[i+1]+1],
		})
	}
	return s.unitsToGlyphs(units, true)
}

// unitsToGlyphs maps code units to decoded characters: one unit per code
// for simple fonts, two for composite fonts, through the font's ToUnicode
// CMap when present.
func (s *scanner) unitsToGlyphs(units []codeUnit, hexForm bool) []glyph {
	var out []glyph
	width := 1
	if s.font != nil && s.font.twoByte {
		width = 2
	}

	for i := 0; i < len(units); i += width {
		var cid uint16
		var raw []byte
		if width == 2 {
			if i+1 >= len(units) {
				break
			}
			cid = uint16(units[i].value)<<8 | uint16(units[i+1].value)
			raw = append(append([]byte(nil), units[i].raw...), units[i+1].raw...)
		} else {
			cid = uint16(units[i].value)
			raw = append([]byte(nil), units[i].raw...)
		}

		text := ""
		if s.font != nil && s.font.cmap != nil {
			if mapped, ok := s.font.cmap.lookup(cid); ok {
				text = mapped
			}
		}
		if text == "" && width == 1 {
			text = string(rune(cid))
		}

		out = append(out, glyph{
			text:    text,
			raw:     raw,
			hexForm: hexForm,
			isSpace: text == " " || (width == 1 && cid == 32),
		})
	}
	return out
}

// charWidthEm approximates a character's width in em units; exact metrics
// would require parsing font programs, and the redaction box is padded and
// painted over anyway.
func charWidthEm(ch string) float64 {
	switch ch {
	case " ":
		return 0.25
	case "i", "l", "I", "!", ".", ",", ";", ":", "'", "\"", "|", "j", "t", "f":
		return 0.3
	case "m", "M", "W", "w":
		return 0.8
	default:
		return 0.5
	}
}

func num(t token) float64 {
	f, _ := strconv.ParseFloat(string(t.raw), 64)
	return f
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return 0
}
