package redactor

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veildocs/redact/pkg/audit"
	"github.com/veildocs/redact/pkg/config"
	"github.com/veildocs/redact/pkg/match"
	"github.com/veildocs/redact/pkg/pdf"
)

// writeFixturePDF assembles a one-page document around the given content
// stream and writes it into dir. Offsets are tracked while the objects are
// emitted so the cross-reference table is exact and the file validates.
func writeFixturePDF(t *testing.T, dir, name, content string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const patientContent = "BT /F1 12 Tf 72 700 Td (Patient: John Smith, MRN 12345) Tj ET"

func runNativeFile(t *testing.T, inputPath, outputPath, target string) *Outcome {
	t.Helper()
	doc, err := pdf.Open(inputPath)
	if err != nil {
		t.Fatalf("Open(%s): %v", inputPath, err)
	}
	defer doc.Close()

	outcome, err := RunNative(doc, outputPath, match.NewTargets([]string{target}),
		Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("RunNative: %v", err)
	}
	return outcome
}

func extractFirstPageText(t *testing.T, path string) string {
	t.Helper()
	doc, err := pdf.Open(path)
	if err != nil {
		t.Fatalf("reopening %s: %v", path, err)
	}
	defer doc.Close()
	page, err := doc.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	return page.ExtractText()
}

func TestRunNativeRedactsPhraseInFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFixturePDF(t, dir, "in.pdf", patientContent)
	out := filepath.Join(dir, "out.pdf")

	outcome := runNativeFile(t, in, out, "John Smith")
	if got := outcome.Log.Count(audit.ActionTextRedacted); got != 1 {
		t.Errorf("text_redacted entries = %d, want 1", got)
	}

	if got, want := extractFirstPageText(t, out), "Patient: , MRN 12345"; got != want {
		t.Errorf("output text = %q, want %q", got, want)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("John")) || bytes.Contains(raw, []byte("Smith")) {
		t.Error("output file still carries the redacted phrase bytes")
	}
}

func TestRunNativeAbsentTargetLeavesTextIntact(t *testing.T) {
	dir := t.TempDir()
	in := writeFixturePDF(t, dir, "in.pdf", patientContent)
	out := filepath.Join(dir, "out.pdf")

	outcome := runNativeFile(t, in, out, "Jane Doe")
	if got := outcome.Log.Count(audit.ActionTextRedacted); got != 0 {
		t.Errorf("text_redacted entries = %d, want 0", got)
	}
	if got, want := extractFirstPageText(t, out), "Patient: John Smith, MRN 12345"; got != want {
		t.Errorf("output text = %q, want %q", got, want)
	}
}

func TestRunNativeIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := writeFixturePDF(t, dir, "in.pdf", patientContent)
	first := filepath.Join(dir, "first.pdf")
	second := filepath.Join(dir, "second.pdf")

	runNativeFile(t, in, first, "John Smith")
	outcome := runNativeFile(t, first, second, "John Smith")

	if got := outcome.Log.Count(audit.ActionTextRedacted); got != 0 {
		t.Errorf("second run text_redacted entries = %d, want 0", got)
	}
	if got, want := extractFirstPageText(t, second), extractFirstPageText(t, first); got != want {
		t.Errorf("second run changed the text: %q != %q", got, want)
	}
}

func TestAssemblePDFWritesImageOnlyOutput(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page-0001.png")
	if err := writePNG(page, image.NewRGBA(image.Rect(0, 0, 40, 40))); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.pdf")
	if err := assemblePDF([]string{page}, out); err != nil {
		t.Fatalf("assemblePDF: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", raw[:min(8, len(raw))])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".redact-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
