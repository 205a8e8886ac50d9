package classify

import (
	"fmt"
	"testing"

	"github.com/veildocs/redact/pkg/config"
)

// fakeSampler serves canned token counts; a count of -1 simulates a page
// whose text layer cannot be read.
type fakeSampler struct {
	tokens []int
}

func (f fakeSampler) PageCount() int { return len(f.tokens) }

func (f fakeSampler) PageTokens(pageIndex int) (int, error) {
	n := f.tokens[pageIndex-1]
	if n < 0 {
		return 0, fmt.Errorf("unreadable page %d", pageIndex)
	}
	return n, nil
}

func TestClassifyTextNative(t *testing.T) {
	s := fakeSampler{tokens: []int{250, 310, 190, 270, 220}}
	kind, profile, err := Classify(s, config.Default())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if kind != TextNative {
		t.Errorf("kind = %v, want text-native", kind)
	}
	if profile.ImageOnlyFraction != 0 {
		t.Errorf("ImageOnlyFraction = %g, want 0", profile.ImageOnlyFraction)
	}
}

func TestClassifyScannedMajority(t *testing.T) {
	// 4 of 5 pages image-only, 1 page fully text: majority rule says scanned.
	s := fakeSampler{tokens: []int{0, 2, 0, 480, 1}}
	kind, _, err := Classify(s, config.Default())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if kind != Scanned {
		t.Errorf("kind = %v, want scanned", kind)
	}
}

func TestClassifyHybridMajorityText(t *testing.T) {
	// 2 of 5 pages image-only: majority is text-native.
	s := fakeSampler{tokens: []int{300, 0, 280, 0, 260}}
	kind, _, err := Classify(s, config.Default())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if kind != TextNative {
		t.Errorf("kind = %v, want text-native", kind)
	}
}

func TestClassifyUnreadablePagesCountAsImageOnly(t *testing.T) {
	s := fakeSampler{tokens: []int{-1, -1, -1, 400}}
	kind, _, err := Classify(s, config.Default())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if kind != Scanned {
		t.Errorf("kind = %v, want scanned", kind)
	}
}

func TestClassifyEmptyDocument(t *testing.T) {
	if _, _, err := Classify(fakeSampler{}, config.Default()); err == nil {
		t.Error("expected error for document with no pages")
	}
}

func TestSamplePages(t *testing.T) {
	cases := []struct {
		pageCount, lead, interior int
		want                      []int
	}{
		{3, 5, 3, []int{1, 2, 3}},
		{5, 5, 3, []int{1, 2, 3, 4, 5}},
		{100, 5, 3, []int{1, 2, 3, 4, 5, 28, 51, 74}},
		{8, 5, 3, []int{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, c := range cases {
		got := SamplePages(c.pageCount, c.lead, c.interior)
		if len(got) != len(c.want) {
			t.Errorf("SamplePages(%d,%d,%d) = %v, want %v", c.pageCount, c.lead, c.interior, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("SamplePages(%d,%d,%d) = %v, want %v", c.pageCount, c.lead, c.interior, got, c.want)
				break
			}
		}
	}
}

func TestSamplePagesDeterministic(t *testing.T) {
	a := SamplePages(500, 5, 3)
	b := SamplePages(500, 5, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("sampling must be deterministic")
		}
	}
}
