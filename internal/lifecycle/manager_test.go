package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/edvinh/lui/internal/assets"
	"github.com/edvinh/lui/internal/engine"
)

type stubFetcher struct {
	exists        bool
	size          int64
	downloadErr   error
	progressSteps []float64
	downloads     int
}

func (s *stubFetcher) Download(ctx context.Context, url, destPath string, onProgress func(float64)) (string, error) {
	s.downloads++
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	for _, p := range s.progressSteps {
		onProgress(p)
	}
	s.exists = true
	s.size = 1 << 30
	return destPath, nil
}

func (s *stubFetcher) Exists(path string) bool { return s.exists }
func (s *stubFetcher) SizeOf(path string) int64 {
	return s.size
}

type stubHandle struct {
	completion  string
	completeErr error
	events      *[]string
	name        string
}

func (s *stubHandle) Complete(ctx context.Context, prompt string, opts engine.Options, onToken func(string)) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	if onToken != nil {
		onToken(s.completion)
	}
	return s.completion, nil
}

func (s *stubHandle) Release() error {
	if s.events != nil {
		*s.events = append(*s.events, "release:"+s.name)
	}
	return nil
}

type stubEngine struct {
	loadErr error
	events  *[]string
	loads   int
}

func (s *stubEngine) Load(ctx context.Context, modelPath string) (engine.Handle, error) {
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	name := string(rune('0' + s.loads))
	if s.events != nil {
		*s.events = append(*s.events, "load:"+name)
	}
	return &stubHandle{completion: "ok", events: s.events, name: name}, nil
}

func testAsset() assets.Asset {
	return assets.Asset{
		Name:     "tiny-model",
		URL:      "http://localhost/model.gguf",
		Path:     "/tmp/tiny-model.gguf",
		MinBytes: 100,
	}
}

func assertState(t *testing.T, m *Manager, want State) {
	t.Helper()
	got := m.Snapshot().State
	if got != want {
		t.Fatalf("expected state: %v, got: %v", want, got)
	}
	// Handle invariant: a live handle exists iff ready
	if (want == StateReady) != m.IsModelReady() {
		t.Fatalf("handle invariant broken in state: %v, isModelReady: %v", got, m.IsModelReady())
	}
}

func Test_Manager_happyPath(t *testing.T) {
	ctx := context.Background()
	fetcher := &stubFetcher{progressSteps: []float64{0.25, 0.5, 1}}
	eng := &stubEngine{}
	m := NewManager(testAsset(), fetcher, eng, nil)

	assertState(t, m, StateIdle)
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	assertState(t, m, StateAwaitingConsent)
	m.Confirm(ctx)
	assertState(t, m, StateDownloaded)
	if got := m.Snapshot().DownloadProgress; got != 1 {
		t.Fatalf("expected progress pinned to 1, got: %v", got)
	}
	if err := m.Load(ctx); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	assertState(t, m, StateReady)
	out, err := m.Generate(ctx, "hello", engine.Options{}, nil)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	testboil.FailTestIfDiff(t, out, "ok")
	if err := m.Release(); err != nil {
		t.Fatalf("failed to release: %v", err)
	}
	assertState(t, m, StateDownloaded)
}

func Test_Manager_downloadFailureThenRetry(t *testing.T) {
	ctx := context.Background()
	fetcher := &stubFetcher{downloadErr: errors.New("connection reset")}
	eng := &stubEngine{}
	m := NewManager(testAsset(), fetcher, eng, nil)

	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	snap := m.Snapshot()
	assertState(t, m, StateError)
	if snap.ErrorDetail == "" {
		t.Fatal("expected a human readable error detail")
	}

	// Network recovers
	fetcher.downloadErr = nil
	m.Retry(ctx)
	assertState(t, m, StateDownloaded)
	if got := m.Snapshot().ErrorDetail; got != "" {
		t.Fatalf("expected cleared error detail, got: %v", got)
	}
	if fetcher.downloads != 2 {
		t.Fatalf("expected 2 download attempts, got: %v", fetcher.downloads)
	}
}

func Test_Manager_confirmSkipsFetchForPresentAsset(t *testing.T) {
	ctx := context.Background()
	fetcher := &stubFetcher{exists: true, size: 1 << 30}
	m := NewManager(testAsset(), fetcher, &stubEngine{}, nil)

	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	assertState(t, m, StateDownloaded)
	if fetcher.downloads != 0 {
		t.Fatalf("expected no fetch for present asset, got: %v", fetcher.downloads)
	}
}

func Test_Manager_undersizedAssetIsRefetched(t *testing.T) {
	ctx := context.Background()
	// Present but below the sanity threshold, i.e. a truncated download
	fetcher := &stubFetcher{exists: true, size: 10}
	m := NewManager(testAsset(), fetcher, &stubEngine{}, nil)

	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	assertState(t, m, StateDownloaded)
	if fetcher.downloads != 1 {
		t.Fatalf("expected a refetch for undersized asset, got: %v", fetcher.downloads)
	}
}

func Test_Manager_cancel(t *testing.T) {
	m := NewManager(testAsset(), &stubFetcher{}, &stubEngine{}, nil)
	t.Run("it should return to idle from awaitingConsent", func(t *testing.T) {
		if err := m.RequestDownload(); err != nil {
			t.Fatalf("failed to request download: %v", err)
		}
		if err := m.Cancel(); err != nil {
			t.Fatalf("failed to cancel: %v", err)
		}
		assertState(t, m, StateIdle)
	})
	t.Run("it should reject cancel from downloaded", func(t *testing.T) {
		fetcher := &stubFetcher{exists: true, size: 1 << 30}
		m := NewManager(testAsset(), fetcher, &stubEngine{}, nil)
		if err := m.RequestDownload(); err != nil {
			t.Fatalf("failed to request download: %v", err)
		}
		m.Confirm(context.Background())
		if err := m.Cancel(); !errors.Is(err, ErrBadTransition) {
			t.Fatalf("expected ErrBadTransition, got: %v", err)
		}
	})
}

func Test_Manager_generateOutsideReady(t *testing.T) {
	m := NewManager(testAsset(), &stubFetcher{}, &stubEngine{}, nil)
	_, err := m.Generate(context.Background(), "hello", engine.Options{}, nil)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got: %v", err)
	}
}

func Test_Manager_generateFailureKeepsReady(t *testing.T) {
	ctx := context.Background()
	fetcher := &stubFetcher{exists: true, size: 1 << 30}
	eng := &stubEngine{}
	m := NewManager(testAsset(), fetcher, eng, nil)
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	m.mu.Lock()
	m.handle = &stubHandle{completeErr: errors.New("oom")}
	m.mu.Unlock()

	_, err := m.Generate(ctx, "hello", engine.Options{}, nil)
	if err == nil {
		t.Fatal("expected generation failure")
	}
	// A rejected generation is not a lifecycle event
	assertState(t, m, StateReady)
}

func Test_Manager_loadFailure(t *testing.T) {
	ctx := context.Background()
	fetcher := &stubFetcher{exists: true, size: 1 << 30}
	eng := &stubEngine{loadErr: errors.New("bad magic bytes")}
	m := NewManager(testAsset(), fetcher, eng, nil)
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	if err := m.Load(ctx); err == nil {
		t.Fatal("expected load failure")
	}
	assertState(t, m, StateError)
}

func Test_Manager_loadWhileReadyReleasesFirst(t *testing.T) {
	ctx := context.Background()
	events := []string{}
	fetcher := &stubFetcher{exists: true, size: 1 << 30}
	eng := &stubEngine{events: &events}
	m := NewManager(testAsset(), fetcher, eng, nil)
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if err := m.Load(ctx); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	assertState(t, m, StateReady)
	want := []string{"load:1", "release:1", "load:2"}
	if len(events) != len(want) {
		t.Fatalf("expected events: %v, got: %v", want, events)
	}
	for i := range want {
		testboil.FailTestIfDiff(t, events[i], want[i])
	}
}

func Test_Manager_releaseIsIdempotent(t *testing.T) {
	m := NewManager(testAsset(), &stubFetcher{}, &stubEngine{}, nil)
	if err := m.Release(); err != nil {
		t.Fatalf("release without a handle should be a no-op, got: %v", err)
	}
	if err := m.Release(); err != nil {
		t.Fatalf("repeated release should be a no-op, got: %v", err)
	}
}

func Test_Manager_progressReporting(t *testing.T) {
	ctx := context.Background()
	var seen []float64
	fetcher := &stubFetcher{progressSteps: []float64{0.3, 0.6, 2.5}}
	m := NewManager(testAsset(), fetcher, &stubEngine{}, func(s Snapshot) {
		if s.State == StateDownloading {
			seen = append(seen, s.DownloadProgress)
		}
	})
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	if len(seen) == 0 {
		t.Fatal("expected progress updates while downloading")
	}
	for _, p := range seen {
		if p < 0 || p > 1 {
			t.Fatalf("expected progress clamped to [0,1], got: %v", p)
		}
	}
	if got := m.Snapshot().DownloadProgress; got != 1 {
		t.Fatalf("expected final progress 1, got: %v", got)
	}
}

func Test_Manager_onChangeObservesTransitions(t *testing.T) {
	ctx := context.Background()
	var states []State
	fetcher := &stubFetcher{}
	m := NewManager(testAsset(), fetcher, &stubEngine{}, func(s Snapshot) {
		if len(states) == 0 || states[len(states)-1] != s.State {
			states = append(states, s.State)
		}
	})
	if err := m.RequestDownload(); err != nil {
		t.Fatalf("failed to request download: %v", err)
	}
	m.Confirm(ctx)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	want := []State{StateAwaitingConsent, StateDownloading, StateDownloaded, StateLoading, StateReady}
	if len(states) != len(want) {
		t.Fatalf("expected states: %v, got: %v", want, states)
	}
	for i := range want {
		testboil.FailTestIfDiff(t, string(states[i]), string(want[i]))
	}
}

func Test_Manager_retryOutsideErrorIsIgnored(t *testing.T) {
	m := NewManager(testAsset(), &stubFetcher{}, &stubEngine{}, nil)
	m.Retry(context.Background())
	assertState(t, m, StateIdle)
}

func Test_Manager_confirmOutsideAwaitingConsentIsIgnored(t *testing.T) {
	fetcher := &stubFetcher{}
	m := NewManager(testAsset(), fetcher, &stubEngine{}, nil)
	m.Confirm(context.Background())
	assertState(t, m, StateIdle)
	if fetcher.downloads != 0 {
		t.Fatalf("expected no download, got: %v", fetcher.downloads)
	}
}
