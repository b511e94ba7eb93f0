// Package engine abstracts the local inference runtime. The lifecycle
// manager only ever talks to these two interfaces, the concrete runtime is
// injected at wiring time.
package engine

import "context"

// Options control a single completion request.
type Options struct {
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	StopSequences []string `json:"stopSequences,omitempty"`
}

// Handle is a live, loaded model. At most one handle exists at a time, the
// lifecycle manager enforces release-before-reload ordering.
type Handle interface {
	// Complete returns the completion for prompt. Partial tokens are
	// optionally surfaced through onToken as they arrive; the returned
	// string is the authoritative final text, never the concatenation of
	// partials.
	Complete(ctx context.Context, prompt string, opts Options, onToken func(token string)) (string, error)
	// Release returns the model resources to the runtime. Idempotent.
	Release() error
}

// Engine loads model files into live handles.
type Engine interface {
	Load(ctx context.Context, modelPath string) (Handle, error)
}
