package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ApplyEdit rewrites the page's content stream with the edit applied and
// installs the result as the page's single content stream. The original
// stream objects are left orphaned; removed text and images are absent
// from the new stream, not covered up.
func (p *Page) ApplyEdit(edit PageEdit) error {
	if edit.Empty() {
		return nil
	}
	p.scan()

	rewritten := RewriteContent(p.content, p.ops, edit)
	sd, err := p.ctx.XRefTable.NewStreamDictForBuf(rewritten)
	if err != nil {
		return fmt.Errorf("failed to build content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content stream: %w", err)
	}
	indRef, err := p.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("failed to register content stream: %w", err)
	}
	p.pageDict["Contents"] = *indRef

	// Keep the in-memory model consistent for any later edit of the same
	// page in this call.
	p.content = rewritten
	p.scanned = false
	p.ops = nil
	p.chars = nil
	p.words = nil
	p.images = nil
	return nil
}

// RemoveImageResource unhooks an image from the page's resource dictionary
// and overwrites its payload stream with an empty one, so the pixel data no
// longer exists in the written file even for tools that walk orphaned
// objects.
func (p *Page) RemoveImageResource(pl ImagePlacement) error {
	res, err := p.ctx.DereferenceDict(p.pageDict["Resources"])
	if err == nil && res != nil {
		if xobj, err2 := p.ctx.DereferenceDict(res["XObject"]); err2 == nil && xobj != nil {
			delete(xobj, pl.Name)
		}
	}

	entry, ok := p.ctx.Table[pl.ObjNr]
	if !ok || entry == nil {
		return fmt.Errorf("image object %d not found", pl.ObjNr)
	}
	blank, err := p.ctx.XRefTable.NewStreamDictForBuf(nil)
	if err != nil {
		return fmt.Errorf("failed to build replacement stream: %w", err)
	}
	if err := blank.Encode(); err != nil {
		return fmt.Errorf("failed to encode replacement stream: %w", err)
	}
	entry.Object = *blank
	return nil
}

// ScrubInfo drops the document information dictionary so author, producer
// and title metadata from the source do not survive into the redacted file.
func (d *Document) ScrubInfo() {
	d.ctx.XRefTable.Info = nil
	if d.ctx.RootDict != nil {
		delete(d.ctx.RootDict, "Metadata")
	}
}

// WriteFile serializes the document to path atomically: the file is written
// to a temporary name in the destination directory and renamed into place,
// so a failed write never leaves a partial PDF behind.
func (d *Document) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".redact-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := api.WriteContext(d.ctx, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
