package ocr

import "errors"

// ErrNotEnabled is returned when recognition is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Word is one recognized word with its bounding box in pixel coordinates
// of the submitted image, origin at the top-left corner.
type Word struct {
	Text       string
	X0, Y0     int
	X1, Y1     int
	Confidence float64
}
