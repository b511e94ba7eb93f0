package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// HTTPFetcher downloads assets over plain HTTP(S). The file is streamed to a
// '.part' sibling and renamed on completion, so a crashed download never
// leaves a plausible-looking model file behind.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{}}
}

func (f *HTTPFetcher) Download(ctx context.Context, url, destPath string, onProgress func(float64)) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	res, err := f.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %v", res.Status)
	}

	partPath := destPath + ".part"
	part, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	pw := &progressWriter{total: res.ContentLength, onProgress: onProgress}
	_, err = io.Copy(io.MultiWriter(part, pw), res.Body)
	closeErr := part.Close()
	if err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("failed to download body: %w", err)
	}
	if closeErr != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		return "", fmt.Errorf("failed to move downloaded file in place: %w", err)
	}
	if onProgress != nil {
		onProgress(1)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("downloaded '%v' to '%v'\n", url, destPath)
	}
	return destPath, nil
}

func (f *HTTPFetcher) Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func (f *HTTPFetcher) SizeOf(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

// progressWriter reports the downloaded fraction. Fractions are monotone
// non-decreasing; with an unknown content length nothing is reported until
// the final pinned 1 from Download.
type progressWriter struct {
	total      int64
	written    int64
	last       float64
	onProgress func(float64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.onProgress != nil && p.total > 0 {
		fraction := min(float64(p.written)/float64(p.total), 1)
		if fraction > p.last {
			p.last = fraction
			p.onProgress(fraction)
		}
	}
	return len(b), nil
}
