package raster

import (
	"runtime"
	"testing"
)

func TestWorkers(t *testing.T) {
	// Letter page at 200 DPI.
	w, h := 612.0, 792.0

	if got := Workers(4, 2, w, h, 200); got != 2 {
		t.Errorf("configured workers not capped by page count: got %d, want 2", got)
	}
	if got := Workers(3, 100, w, h, 200); got != 3 {
		t.Errorf("configured workers ignored: got %d, want 3", got)
	}
	if got := Workers(0, 0, w, h, 200); got != 1 {
		t.Errorf("empty document should still get one worker, got %d", got)
	}

	got := Workers(0, 1000, w, h, 200)
	if got < 1 {
		t.Errorf("auto workers below 1: %d", got)
	}
	if got > runtime.NumCPU() {
		t.Errorf("auto workers %d exceeds CPU count %d", got, runtime.NumCPU())
	}
}

func TestPageRenderBytes(t *testing.T) {
	// 72 DPI renders at 1:1, so a 100x100pt page is 100x100px RGBA.
	if got := pageRenderBytes(100, 100, 72); got != 40000 {
		t.Errorf("pageRenderBytes = %d, want 40000", got)
	}
	if got := pageRenderBytes(0, 100, 72); got != 0 {
		t.Errorf("degenerate page should estimate 0, got %d", got)
	}
}
