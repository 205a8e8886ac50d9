package audit

import "testing"

func TestLogOrderPreserved(t *testing.T) {
	var l Log
	l.Append(1, ActionTextRedacted, "target #1")
	l.Append(1, ActionLogoRemoved, "image a1b2")
	l.Append(2, ActionTextRedacted, "target #1")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Kind != ActionTextRedacted || entries[0].PageIndex != 1 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[2].PageIndex != 2 {
		t.Errorf("expected page 2 last, got %+v", entries[2])
	}
}

func TestLogCount(t *testing.T) {
	var l Log
	l.Append(1, ActionLogoRemoved, "image a1b2")
	l.Append(2, ActionLogoRemoved, "image a1b2")
	l.Append(2, ActionPlaceholderInserted, "image a1b2")

	if got := l.Count(ActionLogoRemoved); got != 2 {
		t.Errorf("Count(logo_removed) = %d, want 2", got)
	}
	if got := l.Count(ActionTextRedacted); got != 0 {
		t.Errorf("Count(text_redacted) = %d, want 0", got)
	}
}

func TestExtend(t *testing.T) {
	var a, b Log
	a.Append(1, ActionTextRedacted, "target #1")
	b.Append(2, ActionTextRedacted, "target #2")
	a.Extend(&b)

	if a.Len() != 2 {
		t.Fatalf("expected 2 entries after Extend, got %d", a.Len())
	}
	if a.Entries()[1].Detail != "target #2" {
		t.Errorf("Extend did not preserve order: %+v", a.Entries())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	var l Log
	l.Append(1, ActionTextRedacted, "target #1")

	entries := l.Entries()
	entries[0].Detail = "mutated"

	if l.Entries()[0].Detail != "target #1" {
		t.Error("Entries must return a copy, not the backing slice")
	}
}
