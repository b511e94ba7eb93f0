// Package assets defines the model file identity and the fetcher collaborator
// which materializes it on disk.
package assets

import "context"

// Asset identifies a model file by a stable name/URL pair. Immutable once
// defined; presence on disk is re-checked on every use, never cached.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Path string `json:"path"`
	// MinBytes is a lower-bound sanity threshold: files smaller than this
	// are treated as absent (truncated or interrupted downloads).
	MinBytes int64 `json:"minBytes"`
}

// Fetcher materializes assets on disk and answers presence questions.
type Fetcher interface {
	// Download url to destPath, reporting the completed fraction in [0,1]
	// through onProgress. Returns the destination path on success.
	Download(ctx context.Context, url, destPath string, onProgress func(fraction float64)) (string, error)
	Exists(path string) bool
	SizeOf(path string) int64
}
