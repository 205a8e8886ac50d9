package pdf

import (
	"encoding/hex"
	"regexp"
	"strconv"
)

// toUnicodeCMap maps glyph codes to Unicode text using a font's ToUnicode
// stream. Only the bfchar and bfrange forms appearing in practice are
// handled; unmapped codes fall back to byte-value decoding.
type toUnicodeCMap struct {
	direct  map[uint16]string
	ranges  []cmapRange
	twoByte bool
}

type cmapRange struct {
	lo, hi uint16
	start  uint16
	list   []string
}

var (
	bfCharRe    = regexp.MustCompile(`beginbfchar\s*((?:<[0-9A-Fa-f]+>\s*<[0-9A-Fa-f]+>\s*)+)endbfchar`)
	bfCharPair  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>`)
	bfRangeRe   = regexp.MustCompile(`beginbfrange\s*((?:<[0-9A-Fa-f]+>\s*<[0-9A-Fa-f]+>\s*(?:<[0-9A-Fa-f]+>|\[[^\]]*\])\s*)+)endbfrange`)
	bfRangeItem = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*(<[0-9A-Fa-f]+>|\[[^\]]*\])`)
	hexItemRe   = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
	codespaceRe = regexp.MustCompile(`begincodespacerange\s*<([0-9A-Fa-f]+)>`)
)

// parseToUnicodeCMap parses a decoded ToUnicode stream.
func parseToUnicodeCMap(data []byte) (*toUnicodeCMap, error) {
	cm := &toUnicodeCMap{direct: make(map[uint16]string)}
	content := string(data)

	if m := codespaceRe.FindStringSubmatch(content); m != nil {
		cm.twoByte = len(m[1]) == 4
	}

	for _, section := range bfCharRe.FindAllStringSubmatch(content, -1) {
		for _, pair := range bfCharPair.FindAllStringSubmatch(section[1], -1) {
			src, err := parseHexCode(pair[1])
			if err != nil {
				continue
			}
			cm.direct[src] = decodeUTF16Hex(pair[2])
		}
	}

	for _, section := range bfRangeRe.FindAllStringSubmatch(content, -1) {
		for _, item := range bfRangeItem.FindAllStringSubmatch(section[1], -1) {
			lo, err1 := parseHexCode(item[1])
			hi, err2 := parseHexCode(item[2])
			if err1 != nil || err2 != nil || hi < lo {
				continue
			}
			r := cmapRange{lo: lo, hi: hi}
			if item[3][0] == '[' {
				for _, h := range hexItemRe.FindAllStringSubmatch(item[3], -1) {
					r.list = append(r.list, decodeUTF16Hex(h[1]))
				}
			} else {
				start, err := parseHexCode(item[3][1 : len(item[3])-1])
				if err != nil {
					continue
				}
				r.start = start
			}
			cm.ranges = append(cm.ranges, r)
		}
	}

	return cm, nil
}

// lookup resolves a glyph code to its Unicode text.
func (cm *toUnicodeCMap) lookup(cid uint16) (string, bool) {
	if s, ok := cm.direct[cid]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if cid < r.lo || cid > r.hi {
			continue
		}
		off := cid - r.lo
		if r.list != nil {
			if int(off) < len(r.list) {
				return r.list[off], true
			}
			return "", false
		}
		return string(rune(r.start + off)), true
	}
	return "", false
}

// parseHexCode parses a source code of up to 4 hex digits.
func parseHexCode(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// decodeUTF16Hex decodes a destination hex string as UTF-16BE text.
func decodeUTF16Hex(s string) string {
	if len(s)%2 == 1 {
		s += "0"
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	var out []rune
	for i := 0; i+1 < len(b); i += 2 {
		u := rune(b[i])<<8 | rune(b[i+1])
		// Surrogate pair.
		if u >= 0xD800 && u <= 0xDBFF && i+3 < len(b) {
			lo := rune(b[i+2])<<8 | rune(b[i+3])
			if lo >= 0xDC00 && lo <= 0xDFFF {
				out = append(out, 0x10000+((u-0xD800)<<10)+(lo-0xDC00))
				i += 2
				continue
			}
		}
		out = append(out, u)
	}
	return string(out)
}
