package pdf

import (
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// testResources is a direct resource dictionary so the scanner never needs
// a live pdfcpu context to resolve it.
func testResources() types.Dict {
	return types.Dict{
		"Resources": types.Dict{
			"Font": types.Dict{
				"F1": types.Dict{"Subtype": types.Name("Type1")},
			},
		},
	}
}

func scanContent(t *testing.T, content string) *scanner {
	t.Helper()
	s := newScanner(nil, testResources())
	s.scan([]byte(content))
	return s
}

func pageText(s *scanner) string {
	words := groupWords(s.chars)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

func TestScannerExtractsPositionedText(t *testing.T) {
	s := scanContent(t, "BT /F1 12 Tf 72 700 Td (Patient: John Smith, MRN 12345) Tj ET")

	got := pageText(s)
	want := "Patient: John Smith, MRN 12345"
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}

	if len(s.chars) == 0 {
		t.Fatal("no chars extracted")
	}
	first := s.chars[0]
	if first.Box.X0 != 72 || first.Box.Y0 != 700 {
		t.Errorf("first char at (%.1f, %.1f), want (72, 700)", first.Box.X0, first.Box.Y0)
	}
	for i := 1; i < len(s.chars); i++ {
		if s.chars[i].Box.X0 < s.chars[i-1].Box.X0 {
			t.Fatalf("char %d moved backwards: %.2f < %.2f", i, s.chars[i].Box.X0, s.chars[i-1].Box.X0)
		}
	}
}

func TestScannerTJAdjustments(t *testing.T) {
	// The -2000 adjustment moves the text cursor right by 2*size points.
	s := scanContent(t, "BT /F1 10 Tf 0 0 Td [(AB) -2000 (CD)] TJ ET")

	if got := pageText(s); got != "AB CD" {
		t.Fatalf("text = %q, want %q", got, "AB CD")
	}

	var b, c Char
	for _, ch := range s.chars {
		switch ch.Text {
		case "B":
			b = ch
		case "C":
			c = ch
		}
	}
	gap := c.Box.X0 - b.Box.X1
	if gap < 19 || gap > 21 {
		t.Errorf("gap between runs = %.2f, want ~20", gap)
	}
}

func TestScannerOperationSpans(t *testing.T) {
	content := "BT /F1 12 Tf (Hi) Tj ET"
	s := scanContent(t, content)

	if len(s.ops) != 4 {
		t.Fatalf("got %d ops, want 4", len(s.ops))
	}
	for _, op := range s.ops {
		span := content[op.Start:op.End]
		if !strings.HasSuffix(span, op.Operator) {
			t.Errorf("span %q does not end with operator %q", span, op.Operator)
		}
	}
	if got := content[s.ops[2].Start:s.ops[2].End]; got != "(Hi) Tj" {
		t.Errorf("Tj span = %q, want %q", got, "(Hi) Tj")
	}
}

func TestScannerQuoteOperators(t *testing.T) {
	s := scanContent(t, "BT /F1 12 Tf 20 TL 72 700 Td (first) Tj (second)' ET")

	if got := pageText(s); got != "first second" {
		t.Fatalf("text = %q, want %q", got, "first second")
	}
	var firstY, secondY float64
	for _, ch := range s.chars {
		if ch.Text == "f" && firstY == 0 {
			firstY = ch.Box.Y0
		}
		if ch.Text == "s" {
			// "first" also contains an "s"; keep the last one, from "second".
			secondY = ch.Box.Y0
		}
	}
	if secondY != firstY-20 {
		t.Errorf("second line at y=%.1f, want %.1f", secondY, firstY-20)
	}
}

func TestScannerLiteralEscapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"paren escape", `BT /F1 12 Tf (a\(b\)c) Tj ET`, "a(b)c"},
		{"octal", `BT /F1 12 Tf (\101\102) Tj ET`, "AB"},
		{"nested parens", "BT /F1 12 Tf (a(b)c) Tj ET", "a(b)c"},
		{"hex string", "BT /F1 12 Tf <414243> Tj ET", "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scanContent(t, tt.content)
			if got := pageText(s); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScannerSkipsInlineImage(t *testing.T) {
	s := scanContent(t, "BI /W 1 /H 1 ID \x00\x01\x02 EI BT /F1 12 Tf (after) Tj ET")
	if got := pageText(s); got != "after" {
		t.Errorf("text = %q, want %q", got, "after")
	}
}

func TestScannerCTMScalesPositions(t *testing.T) {
	s := scanContent(t, "q 2 0 0 2 10 10 cm BT /F1 12 Tf 0 0 Td (X) Tj ET Q")
	if len(s.chars) == 0 {
		t.Fatal("no chars extracted")
	}
	c := s.chars[0]
	if c.Box.X0 != 10 || c.Box.Y0 != 10 {
		t.Errorf("char at (%.1f, %.1f), want (10, 10)", c.Box.X0, c.Box.Y0)
	}
	if h := c.Box.Height(); h < 23 || h > 25 {
		t.Errorf("char height = %.2f, want ~24 under 2x scale", h)
	}
}
