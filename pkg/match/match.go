// Package match locates caller-supplied target phrases in tokenized page
// text. Matching is case-insensitive and word-bounded: a target matches only
// a contiguous run of whole tokens, so "Ann" never matches inside "Anna".
// Both the text-native and the scanned pipeline feed their tokens through
// this package so the two agree on what counts as a hit.
package match

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/veildocs/redact/pkg/pdf"
)

// Target is one phrase to redact. Label is what audit entries carry instead
// of the phrase itself, so the secret never leaks back through the log.
type Target struct {
	Label  string
	tokens []string
}

// Tokens returns the normalized token sequence of the target.
func (t Target) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// NewTargets normalizes a set of phrases into targets. Empty phrases are
// dropped and duplicates collapse case-insensitively to one target. Labels
// are assigned in input order of the surviving phrases.
func NewTargets(phrases []string) []Target {
	var targets []Target
	seen := make(map[string]bool, len(phrases))

	for _, phrase := range phrases {
		tokens := tokenizePhrase(phrase)
		if len(tokens) == 0 {
			continue
		}
		key := strings.Join(tokens, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, Target{
			Label:  fmt.Sprintf("target #%d", len(targets)+1),
			tokens: tokens,
		})
	}
	return targets
}

// Token is one positioned word from a page, from either the structured text
// layer or OCR localization.
type Token struct {
	Text string
	Box  pdf.BoundingBox
}

// Match is one accepted occurrence of a target. First and Last index the
// token slice the match was found in, inclusive.
type Match struct {
	Target Target
	Box    pdf.BoundingBox
	First  int
	Last   int
}

// Find scans tokens for every occurrence of every target. A target token
// normally consumes exactly one page token; it may also consume a short run
// of consecutive tokens whose concatenation equals it, which absorbs
// localizer output that split a word across adjacent boxes. Matches are
// returned in token order, then target order.
func Find(tokens []Token, targets []Target) []Match {
	norm := make([]string, len(tokens))
	for i, tok := range tokens {
		norm[i] = Normalize(tok.Text)
	}

	var matches []Match
	for i := range tokens {
		for _, target := range targets {
			if last, ok := matchAt(norm, i, target.tokens); ok {
				box := tokens[i].Box
				for j := i + 1; j <= last; j++ {
					box = box.Union(tokens[j].Box)
				}
				matches = append(matches, Match{
					Target: target,
					Box:    box,
					First:  i,
					Last:   last,
				})
			}
		}
	}
	return matches
}

// maxJoin bounds how many consecutive tokens may be concatenated to satisfy
// one target token.
const maxJoin = 3

// matchAt reports whether the target token sequence matches at position
// start, returning the index of the last consumed token.
func matchAt(norm []string, start int, want []string) (int, bool) {
	pos := start
	for _, w := range want {
		if pos >= len(norm) {
			return 0, false
		}
		if norm[pos] == w {
			pos++
			continue
		}
		// Try joining a run of tokens split by the localizer.
		joined := norm[pos]
		matched := false
		for k := pos + 1; k < len(norm) && k < pos+maxJoin; k++ {
			joined += norm[k]
			if joined == w {
				pos = k + 1
				matched = true
				break
			}
			if len(joined) >= len(w) {
				break
			}
		}
		if !matched {
			return 0, false
		}
	}
	return pos - 1, true
}

// MergeBoxes collapses overlapping match regions into disjoint redaction
// regions so a span hit by two targets is processed once.
func MergeBoxes(matches []Match) []pdf.BoundingBox {
	boxes := make([]pdf.BoundingBox, 0, len(matches))
	for _, m := range matches {
		boxes = append(boxes, m.Box)
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].Intersects(boxes[j]) {
					boxes[i] = boxes[i].Union(boxes[j])
					boxes = append(boxes[:j], boxes[j+1:]...)
					merged = true
					j--
				}
			}
		}
	}
	return boxes
}

// Normalize lowercases a token and trims punctuation from both ends, so
// "Doe," matches the target token "doe" while "Johnson" does not.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func tokenizePhrase(phrase string) []string {
	var tokens []string
	for _, field := range strings.Fields(phrase) {
		if t := Normalize(field); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
