package pdf

import "bytes"

// lexer splits a decoded content stream into tokens, preserving exact byte
// spans so the rewriter can copy untouched operations verbatim.
type lexer struct {
	data []byte
	pos  int
}

func isWhitespaceByte(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiterByte(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespaceByte(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// next returns the next token, or ok=false at end of stream.
func (l *lexer) next() (token, bool) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.data) {
		return token{}, false
	}

	start := l.pos
	b := l.data[l.pos]

	switch {
	case b == '(':
		return l.readLiteralString(start), true
	case b == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokDictOpen, raw: l.data[start:l.pos], start: start, end: l.pos}, true
		}
		return l.readHexString(start), true
	case b == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokDictClose, raw: l.data[start:l.pos], start: start, end: l.pos}, true
		}
		// Stray '>' is malformed; consume it as a keyword so scanning
		// continues.
		l.pos++
		return token{kind: tokKeyword, raw: l.data[start:l.pos], start: start, end: l.pos}, true
	case b == '[':
		l.pos++
		return token{kind: tokArrayOpen, raw: l.data[start:l.pos], start: start, end: l.pos}, true
	case b == ']':
		l.pos++
		return token{kind: tokArrayClose, raw: l.data[start:l.pos], start: start, end: l.pos}, true
	case b == '/':
		l.pos++
		for l.pos < len(l.data) && !isWhitespaceByte(l.data[l.pos]) && !isDelimiterByte(l.data[l.pos]) {
			l.pos++
		}
		return token{kind: tokName, raw: l.data[start:l.pos], start: start, end: l.pos}, true
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		l.pos++
		for l.pos < len(l.data) {
			c := l.data[l.pos]
			if c == '.' || (c >= '0' && c <= '9') {
				l.pos++
				continue
			}
			break
		}
		return token{kind: tokNumber, raw: l.data[start:l.pos], start: start, end: l.pos}, true
	}

	// Operator or keyword: a run of regular characters.
	l.pos++
	for l.pos < len(l.data) && !isWhitespaceByte(l.data[l.pos]) && !isDelimiterByte(l.data[l.pos]) {
		l.pos++
	}
	return token{kind: tokKeyword, raw: l.data[start:l.pos], start: start, end: l.pos}, true
}

// readLiteralString consumes a (...) string with balanced parentheses and
// escapes, returning the whole token including delimiters.
func (l *lexer) readLiteralString(start int) token {
	depth := 0
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '\\' {
			l.pos += 2
			continue
		}
		if b == '(' {
			depth++
		} else if b == ')' {
			depth--
			if depth == 0 {
				l.pos++
				break
			}
		}
		l.pos++
	}
	return token{kind: tokString, raw: l.data[start:l.pos], start: start, end: l.pos}
}

// readHexString consumes a <...> string including delimiters.
func (l *lexer) readHexString(start int) token {
	l.pos++ // consume '<'
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	if l.pos < len(l.data) {
		l.pos++ // consume '>'
	}
	return token{kind: tokHex, raw: l.data[start:l.pos], start: start, end: l.pos}
}

// skipInlineImage consumes the binary body of a BI...EI inline image and
// returns the end offset past EI.
func (l *lexer) skipInlineImage() int {
	// Find the EI keyword delimited by whitespace. The image data may
	// contain arbitrary bytes, so scan for the delimiter pattern rather
	// than tokenizing.
	for l.pos < len(l.data) {
		idx := bytes.Index(l.data[l.pos:], []byte("EI"))
		if idx < 0 {
			l.pos = len(l.data)
			return l.pos
		}
		at := l.pos + idx
		beforeOK := at == 0 || isWhitespaceByte(l.data[at-1])
		afterOK := at+2 >= len(l.data) || isWhitespaceByte(l.data[at+2]) || isDelimiterByte(l.data[at+2])
		if beforeOK && afterOK {
			l.pos = at + 2
			return l.pos
		}
		l.pos = at + 2
	}
	return l.pos
}
