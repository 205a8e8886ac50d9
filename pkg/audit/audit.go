// Package audit records the actions a redaction run performs, in the order
// they happened. The log is the caller-facing account of what was removed
// from a document and is safe to render verbatim: entries name redaction
// targets by label, never by the matched text itself.
package audit

import "fmt"

// ActionKind identifies the kind of redaction action an Entry records.
type ActionKind string

const (
	// ActionTextRedacted records removal of a matched phrase from a page's
	// text layer.
	ActionTextRedacted ActionKind = "text_redacted"

	// ActionLogoRemoved records removal of a logo-like image occurrence
	// from a page.
	ActionLogoRemoved ActionKind = "logo_removed"

	// ActionPlaceholderInserted records a placeholder drawn where a logo
	// was removed.
	ActionPlaceholderInserted ActionKind = "placeholder_inserted"

	// ActionPageRasterizedAndRedacted records a scanned-pipeline action:
	// the page was processed as a bitmap. The detail distinguishes
	// successful masking from a localization failure.
	ActionPageRasterizedAndRedacted ActionKind = "page_rasterized_and_redacted"
)

// Entry is one immutable redaction action. PageIndex is 1-based.
type Entry struct {
	PageIndex int
	Kind      ActionKind
	Detail    string
}

// String formats the entry the way the CLI and tests display it.
func (e Entry) String() string {
	return fmt.Sprintf("page %d: %s: %s", e.PageIndex, e.Kind, e.Detail)
}

// Log is the ordered sequence of entries for one redaction call. Entries
// appear in page order, then in action order within a page; consumers must
// not reorder or deduplicate them.
type Log struct {
	entries []Entry
}

// Append adds an entry to the end of the log.
func (l *Log) Append(pageIndex int, kind ActionKind, detail string) {
	l.entries = append(l.entries, Entry{PageIndex: pageIndex, Kind: kind, Detail: detail})
}

// Extend appends all entries from another log, preserving their order.
func (l *Log) Extend(other *Log) {
	if other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

// Entries returns a copy of the recorded entries.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Count returns how many entries have the given kind.
func (l *Log) Count(kind ActionKind) int {
	n := 0
	for _, e := range l.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
