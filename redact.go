// Package redact irreversibly removes target phrases and organizational
// branding from PDF documents. A document is classified as text-native or
// scanned once per call and dispatched to the matching pipeline: text-native
// documents have the matched glyphs and logo payloads excised from their
// content streams, scanned documents are rasterized, masked, and reassembled
// as image-only pages. Every action is recorded in an audit log whose
// entries name targets by label, never by the matched text.
package redact

import (
	"github.com/veildocs/redact/pkg/audit"
	"github.com/veildocs/redact/pkg/classify"
	"github.com/veildocs/redact/pkg/config"
	"github.com/veildocs/redact/pkg/match"
	"github.com/veildocs/redact/pkg/pdf"
	"github.com/veildocs/redact/pkg/redactor"
)

// Re-exported result types, so callers only import the root package.
type (
	Outcome = redactor.Outcome
	Kind    = classify.Kind
	Profile = classify.Profile
	Entry   = audit.Entry
	Log     = audit.Log
)

// Document kinds.
const (
	TextNative = classify.TextNative
	Scanned    = classify.Scanned
)

// Engine runs redaction calls with a fixed configuration. Calls are fully
// independent: nothing observed in one document influences another, and
// the input file is never mutated.
type Engine struct {
	cfg             config.Config
	removeLogos     bool
	addPlaceholders bool
	progress        func(pageIndex, pageCount int)
}

// NewEngine creates an engine with the built-in configuration, adjusted by
// the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cfg: config.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Redact redacts every occurrence of the target phrases in the document at
// inputPath and writes the result to outputPath. The outcome carries the
// document kind, the output path, and the audit log; on error no output
// file is visible at outputPath.
func (e *Engine) Redact(inputPath, outputPath string, targetPhrases []string) (*Outcome, error) {
	targets := match.NewTargets(targetPhrases)
	if len(targets) == 0 {
		return nil, &InvalidInputError{Reason: "no redaction targets supplied"}
	}

	kind, _, err := e.classify(inputPath)
	if err != nil {
		return nil, err
	}

	opts := redactor.Options{
		Config:          e.cfg,
		RemoveLogos:     e.removeLogos,
		AddPlaceholders: e.addPlaceholders,
		Progress:        e.progress,
	}

	// Placeholders only ever follow an actual logo removal; the combination
	// is accepted but noted as a no-op rather than rejected.
	var note string
	if opts.AddPlaceholders && !opts.RemoveLogos {
		opts.AddPlaceholders = false
		note = "placeholders requested without logo removal; none inserted"
	}

	var outcome *Outcome
	if kind == classify.Scanned {
		outcome, err = redactor.RunScanned(inputPath, outputPath, targets, opts)
	} else {
		var doc *pdf.Document
		doc, err = pdf.Open(inputPath)
		if err != nil {
			return nil, &ParseError{Path: inputPath, Err: err}
		}
		defer doc.Close()
		outcome, err = redactor.RunNative(doc, outputPath, targets, opts)
	}
	if err != nil {
		return nil, &SerializationError{Path: outputPath, Err: err}
	}
	outcome.Note = note
	return outcome, nil
}

// Classify reports the document kind and sampling profile without
// redacting anything.
func (e *Engine) Classify(path string) (Kind, Profile, error) {
	return e.classify(path)
}

func (e *Engine) classify(path string) (Kind, Profile, error) {
	probe, err := classify.OpenTextProbe(path)
	if err != nil {
		return 0, Profile{}, &ParseError{Path: path, Err: err}
	}
	defer probe.Close()

	kind, profile, err := classify.Classify(probe, e.cfg)
	if err != nil {
		return 0, Profile{}, &ParseError{Path: path, Err: err}
	}
	return kind, profile, nil
}

// Redact runs a single redaction call with default settings plus options.
func Redact(inputPath, outputPath string, targetPhrases []string, opts ...Option) (*Outcome, error) {
	return NewEngine(opts...).Redact(inputPath, outputPath, targetPhrases)
}

// Classify reports the kind of the document at path with default settings.
func Classify(path string) (Kind, Profile, error) {
	return NewEngine().Classify(path)
}
