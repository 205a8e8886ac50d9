package redact

import "github.com/veildocs/redact/pkg/config"

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the engine's heuristic configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithRemoveLogos enables stripping of detected logo images.
func WithRemoveLogos(remove bool) Option {
	return func(e *Engine) {
		e.removeLogos = remove
	}
}

// WithPlaceholders enables light-tint placeholders where logos were
// removed. Without logo removal this is accepted and has no effect.
func WithPlaceholders(add bool) Option {
	return func(e *Engine) {
		e.addPlaceholders = add
	}
}

// WithProgress installs an advisory per-page completion callback. It is
// called from the redacting goroutine and must not block.
func WithProgress(fn func(pageIndex, pageCount int)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}
