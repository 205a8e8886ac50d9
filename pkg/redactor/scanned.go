package redactor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/veildocs/redact/pkg/audit"
	"github.com/veildocs/redact/pkg/classify"
	"github.com/veildocs/redact/pkg/match"
	"github.com/veildocs/redact/pkg/ocr"
	"github.com/veildocs/redact/pkg/pdf"
	"github.com/veildocs/redact/pkg/raster"
	"github.com/veildocs/redact/pkg/scanimg"
)

// pageResult is the read-only work of one page: its bitmap and localized
// words, or the localization error when words could not be recovered.
type pageResult struct {
	img      image.Image
	words    []ocr.Word
	locError error
}

// RunScanned redacts a scanned document: every page is rasterized, matched
// regions and recurring header/footer artwork are masked on the bitmaps,
// and an image-only PDF is assembled at outputPath. A page whose text
// cannot be localized is copied unredacted and the failure is logged; only
// rendering and serialization errors abort the run.
func RunScanned(path, outputPath string, targets []match.Target, opts Options) (*Outcome, error) {
	cfg := opts.Config

	src, err := raster.OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	pageCount := src.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	pageW, pageH, err := src.PageSize(0)
	if err != nil {
		return nil, err
	}
	workers := raster.Workers(cfg.RasterWorkers, pageCount, pageW, pageH, cfg.ScanDPI)

	// Rendering and localization are read-only and run in parallel;
	// masking and assembly below stay single-writer.
	results := make([]pageResult, pageCount)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			img, err := src.Render(i, cfg.ScanDPI)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			results[i].img = img
			results[i].words, results[i].locError = localizeWords(img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var recurring []scanimg.Band
	if opts.RemoveLogos {
		detector := scanimg.NewDetector(cfg.BandFraction, cfg.RecurrenceRatio)
		for i := range results {
			detector.Observe(results[i].img)
		}
		recurring = detector.Recurring()
	}

	tmpDir, err := os.MkdirTemp("", "redact-scan-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	log := &audit.Log{}
	marginPx := int(cfg.RedactionMarginPt * float64(cfg.ScanDPI) / 72)
	files := make([]string, 0, pageCount)

	for i := range results {
		pageNo := i + 1
		masked := results[i].img

		if results[i].locError != nil {
			log.Append(pageNo, audit.ActionPageRasterizedAndRedacted,
				fmt.Sprintf("localization failed, page copied without text redaction: %v", results[i].locError))
		} else {
			matches := match.Find(ocrTokens(results[i].words), targets)
			var rects []image.Rectangle
			for _, box := range match.MergeBoxes(matches) {
				rects = append(rects, pixelRect(box, marginPx))
			}
			if len(rects) > 0 {
				masked = scanimg.MaskRects(masked, rects, color.Black)
			}
			log.Append(pageNo, audit.ActionPageRasterizedAndRedacted, matchDetail(matches, len(rects)))
		}

		if len(recurring) > 0 {
			maskColor := color.Color(color.White)
			if opts.AddPlaceholders {
				maskColor = color.RGBA{R: 0xed, G: 0xe6, B: 0xf7, A: 0xff}
			}
			var bandRects []image.Rectangle
			for _, band := range recurring {
				bandRects = append(bandRects, scanimg.BandRect(masked.Bounds(), band, cfg.BandFraction))
			}
			masked = scanimg.MaskRects(masked, bandRects, maskColor)
			for _, band := range recurring {
				log.Append(pageNo, audit.ActionLogoRemoved,
					fmt.Sprintf("recurring %s band artwork masked", band))
				if opts.AddPlaceholders {
					log.Append(pageNo, audit.ActionPlaceholderInserted,
						fmt.Sprintf("%s band placeholder", band))
				}
			}
		}

		file := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.png", pageNo))
		if err := writePNG(file, masked); err != nil {
			return nil, err
		}
		files = append(files, file)
		opts.reportProgress(pageNo, pageCount)
	}

	if err := assemblePDF(files, outputPath); err != nil {
		return nil, err
	}
	return &Outcome{Kind: classify.Scanned, OutputPath: outputPath, Log: log}, nil
}

// localizeWords recognizes one page bitmap. A fresh client per page keeps
// the engine usable from parallel workers.
func localizeWords(img image.Image) ([]ocr.Word, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return client.Words(img)
}

// ocrTokens adapts recognized words to match tokens, keeping pixel
// coordinates so merged boxes map straight back onto the bitmap.
func ocrTokens(words []ocr.Word) []match.Token {
	tokens := make([]match.Token, len(words))
	for i, w := range words {
		tokens[i] = match.Token{
			Text: w.Text,
			Box: pdf.BoundingBox{
				X0: float64(w.X0), Y0: float64(w.Y0),
				X1: float64(w.X1), Y1: float64(w.Y1),
			},
		}
	}
	return tokens
}

func pixelRect(box pdf.BoundingBox, marginPx int) image.Rectangle {
	return image.Rect(
		int(box.X0)-marginPx, int(box.Y0)-marginPx,
		int(box.X1)+marginPx+1, int(box.Y1)+marginPx+1,
	)
}

// matchDetail names the matched targets by label only.
func matchDetail(matches []match.Match, regions int) string {
	if len(matches) == 0 {
		return "no matches"
	}
	seen := make(map[string]bool)
	var labels []string
	for _, m := range matches {
		if !seen[m.Target.Label] {
			seen[m.Target.Label] = true
			labels = append(labels, m.Target.Label)
		}
	}
	sort.Strings(labels)
	return fmt.Sprintf("%s painted over %d region(s)", strings.Join(labels, ", "), regions)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create page image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode page image: %w", err)
	}
	return f.Close()
}

// assemblePDF builds the image-only output document and moves it into
// place atomically.
func assemblePDF(imageFiles []string, outputPath string) error {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".redact-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	// ImportImagesFile appends to an existing output file, so the reserved
	// name must be off disk before the import builds a fresh document.
	if err := os.Remove(tmpName); err != nil {
		return fmt.Errorf("failed to reserve temp name: %w", err)
	}

	if err := api.ImportImagesFile(imageFiles, tmpName, nil, nil); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to assemble output PDF: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
