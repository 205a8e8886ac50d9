package redactor

import (
	"image"
	"strings"
	"testing"

	"github.com/veildocs/redact/pkg/match"
	"github.com/veildocs/redact/pkg/ocr"
	"github.com/veildocs/redact/pkg/pdf"
)

func charsOf(s string) []pdf.Char {
	chars := make([]pdf.Char, 0, len(s))
	for i, r := range s {
		chars = append(chars, pdf.Char{
			Text: string(r),
			Box:  pdf.BoundingBox{X0: float64(i), Y0: 0, X1: float64(i + 1), Y1: 10},
		})
	}
	return chars
}

func TestCoreCharsKeepsEdgePunctuation(t *testing.T) {
	tests := []struct {
		name      string
		word      string
		trimLead  bool
		trimTrail bool
		want      string
	}{
		{"trailing comma", "Smith,", false, true, "Smith"},
		{"leading paren", "(Smith", true, false, "Smith"},
		{"both edges", "(Smith),", true, true, "Smith"},
		{"interior apostrophe kept", "O'Brien,", true, true, "O'Brien"},
		{"no trim for interior word", "Smith,", false, false, "Smith,"},
		{"all punctuation", "---", true, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			for _, c := range coreChars(charsOf(tt.word), tt.trimLead, tt.trimTrail) {
				got += c.Text
			}
			if got != tt.want {
				t.Errorf("coreChars(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestMergeBoxes(t *testing.T) {
	boxes := []pdf.BoundingBox{
		{X0: 0, Y0: 0, X1: 10, Y1: 10},
		{X0: 5, Y0: 5, X1: 20, Y1: 15},
		{X0: 100, Y0: 100, X1: 110, Y1: 110},
	}
	merged := mergeBoxes(boxes)
	if len(merged) != 2 {
		t.Fatalf("got %d boxes, want 2", len(merged))
	}
	if merged[0] != (pdf.BoundingBox{X0: 0, Y0: 0, X1: 20, Y1: 15}) {
		t.Errorf("merged box = %+v", merged[0])
	}
}

func TestMergeBoxesChain(t *testing.T) {
	// c overlaps b which overlaps a: all three collapse transitively.
	boxes := []pdf.BoundingBox{
		{X0: 0, Y0: 0, X1: 10, Y1: 10},
		{X0: 18, Y0: 0, X1: 30, Y1: 10},
		{X0: 8, Y0: 0, X1: 20, Y1: 10},
	}
	merged := mergeBoxes(boxes)
	if len(merged) != 1 {
		t.Fatalf("got %d boxes, want 1: %+v", len(merged), merged)
	}
	if merged[0] != (pdf.BoundingBox{X0: 0, Y0: 0, X1: 30, Y1: 10}) {
		t.Errorf("merged box = %+v", merged[0])
	}
}

func TestExciseMatchBoxExcludesPunctuation(t *testing.T) {
	words := []pdf.Word{
		{Text: "Smith,", Chars: charsOf("Smith,")},
	}
	words[0].Box = pdf.BoundingBox{X0: 0, Y0: 0, X1: 6, Y1: 10}

	targets := match.NewTargets([]string{"smith"})
	tokens := []match.Token{{Text: words[0].Text, Box: words[0].Box}}
	matches := match.Find(tokens, targets)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	var edit pdf.PageEdit
	box := exciseMatch(&edit, words, matches[0])
	if box.X1 != 5 {
		t.Errorf("excise box X1 = %.1f, want 5 (comma glyph kept)", box.X1)
	}
	if edit.Empty() {
		t.Error("no glyphs scheduled for removal")
	}
}

func TestOCRTokensAndPixelRect(t *testing.T) {
	words := []ocr.Word{{Text: "Confidential", X0: 40, Y0: 100, X1: 160, Y1: 130}}
	tokens := ocrTokens(words)
	if tokens[0].Text != "Confidential" {
		t.Errorf("token text = %q", tokens[0].Text)
	}
	r := pixelRect(tokens[0].Box, 5)
	want := image.Rect(35, 95, 166, 136)
	if r != want {
		t.Errorf("pixelRect = %v, want %v", r, want)
	}
}

func TestMatchDetailNeverLeaksPhrase(t *testing.T) {
	targets := match.NewTargets([]string{"secret phrase"})
	tokens := []match.Token{
		{Text: "secret", Box: pdf.BoundingBox{X0: 0, X1: 10, Y1: 10}},
		{Text: "phrase", Box: pdf.BoundingBox{X0: 12, X1: 22, Y1: 10}},
	}
	matches := match.Find(tokens, targets)
	detail := matchDetail(matches, 1)
	if detail == "" {
		t.Fatal("empty detail")
	}
	for _, leak := range []string{"secret", "phrase"} {
		if strings.Contains(detail, leak) {
			t.Errorf("detail %q leaks %q", detail, leak)
		}
	}
	if matchDetail(nil, 0) != "no matches" {
		t.Errorf("empty matches detail = %q", matchDetail(nil, 0))
	}
}
