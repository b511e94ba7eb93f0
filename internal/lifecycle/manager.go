// Package lifecycle owns the state machine which takes a model asset from
// intent to download through to a live inference handle. One Manager instance
// is constructed per session and passed explicitly to every consumer.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/edvinh/lui/internal/assets"
	"github.com/edvinh/lui/internal/engine"
)

// Snapshot is an immutable view of the lifecycle state. DownloadProgress is
// meaningful only while downloading, ErrorDetail is non-empty only in the
// error state.
type Snapshot struct {
	State            State   `json:"state"`
	DownloadProgress float64 `json:"downloadProgress"`
	ErrorDetail      string  `json:"errorDetail,omitempty"`
}

// Manager drives the model lifecycle. It exclusively owns the single live
// inference handle; the handle exists if and only if the state is ready.
type Manager struct {
	mu        sync.Mutex
	state     State
	progress  float64
	errDetail string
	handle    engine.Handle

	asset    assets.Asset
	fetcher  assets.Fetcher
	engine   engine.Engine
	onChange func(Snapshot)
	debug    bool
}

// NewManager returns a Manager in the idle state. onChange, if non-nil, is
// invoked after every state or progress update with a fresh snapshot.
func NewManager(asset assets.Asset, fetcher assets.Fetcher, eng engine.Engine, onChange func(Snapshot)) *Manager {
	return &Manager{
		state:    StateIdle,
		asset:    asset,
		fetcher:  fetcher,
		engine:   eng,
		onChange: onChange,
		debug:    misc.Truthy(os.Getenv("DEBUG")),
	}
}

func (m *Manager) Asset() assets.Asset {
	return m.asset
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, DownloadProgress: m.progress, ErrorDetail: m.errDetail}
}

// IsModelReady is the sole gate other components must check before requesting
// generation.
func (m *Manager) IsModelReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateReady && m.handle != nil
}

// RequestDownload registers the intent to acquire the model. State transition
// only, no work starts until Confirm.
func (m *Manager) RequestDownload() error {
	return m.to(StateAwaitingConsent)
}

// Cancel discards download intent, or recovers from the error state, back to
// idle.
func (m *Manager) Cancel() error {
	m.mu.Lock()
	if err := validateTransition(m.state, StateIdle); err != nil {
		m.mu.Unlock()
		return err
	}
	m.state = StateIdle
	m.progress = 0
	m.errDetail = ""
	m.mu.Unlock()
	m.notify()
	return nil
}

// Confirm begins acquiring the asset. Failures never propagate to the caller,
// they land in the error state with a human readable detail. If the asset
// already exists on disk and passes the size sanity threshold, no fetch is
// issued and the state jumps straight to downloaded.
func (m *Manager) Confirm(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateAwaitingConsent {
		m.mu.Unlock()
		ancli.PrintWarn(fmt.Sprintf("confirm called in state %v, ignoring\n", m.state))
		return
	}
	m.mu.Unlock()
	m.acquire(ctx)
}

// Retry re-enters the download path after a failure.
func (m *Manager) Retry(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateError {
		m.mu.Unlock()
		ancli.PrintWarn(fmt.Sprintf("retry called in state %v, ignoring\n", m.state))
		return
	}
	m.errDetail = ""
	m.mu.Unlock()
	m.acquire(ctx)
}

func (m *Manager) acquire(ctx context.Context) {
	if m.fetcher.Exists(m.asset.Path) && m.fetcher.SizeOf(m.asset.Path) >= m.asset.MinBytes {
		if m.debug {
			ancli.Okf("asset already present at '%v', skipping fetch\n", m.asset.Path)
		}
		m.setDownloaded()
		return
	}
	if err := m.to(StateDownloading); err != nil {
		m.fail(err.Error())
		return
	}
	m.setProgress(0)
	dest, err := m.fetcher.Download(ctx, m.asset.URL, m.asset.Path, m.setProgress)
	if err != nil {
		m.fail(fmt.Sprintf("failed to download '%v': %v", m.asset.URL, err))
		return
	}
	if dest == "" {
		m.fail("download returned an empty destination path")
		return
	}
	m.setDownloaded()
}

func (m *Manager) setDownloaded() {
	m.mu.Lock()
	if err := validateTransition(m.state, StateDownloaded); err != nil {
		m.mu.Unlock()
		m.fail(err.Error())
		return
	}
	m.state = StateDownloaded
	m.progress = 1
	m.mu.Unlock()
	m.notify()
}

// Load activates the downloaded asset. Loading while already ready releases
// the old handle before establishing the new one; at most one live handle
// exists at any time.
func (m *Manager) Load(ctx context.Context) error {
	if m.IsModelReady() {
		if err := m.Release(); err != nil {
			return fmt.Errorf("failed to release previous handle: %w", err)
		}
	}
	if err := m.to(StateLoading); err != nil {
		return err
	}
	if !m.fetcher.Exists(m.asset.Path) {
		err := fmt.Errorf("model asset missing at '%v'", m.asset.Path)
		m.fail(err.Error())
		return err
	}
	handle, err := m.engine.Load(ctx, m.asset.Path)
	if err != nil {
		m.fail(fmt.Sprintf("failed to load model: %v", err))
		return fmt.Errorf("failed to load model: %w", err)
	}
	m.mu.Lock()
	m.handle = handle
	m.state = StateReady
	m.mu.Unlock()
	m.notify()
	return nil
}

// Generate delegates promptText verbatim to the loaded model. Callable only
// when IsModelReady; a generation failure is returned to the caller as a
// rejected call, the lifecycle stays ready.
func (m *Manager) Generate(ctx context.Context, promptText string, opts engine.Options, onToken func(string)) (string, error) {
	m.mu.Lock()
	handle := m.handle
	ready := m.state == StateReady && handle != nil
	m.mu.Unlock()
	if !ready {
		return "", ErrNotReady
	}
	out, err := handle.Complete(ctx, promptText, opts, onToken)
	if err != nil {
		return "", fmt.Errorf("failed to generate: %w", err)
	}
	return out, nil
}

// Release returns the handle resources to the engine. Idempotent: without a
// held handle this is a no-op, not an error.
func (m *Manager) Release() error {
	m.mu.Lock()
	if m.handle == nil {
		m.mu.Unlock()
		return nil
	}
	if err := validateTransition(m.state, StateDownloaded); err != nil {
		m.mu.Unlock()
		return err
	}
	handle := m.handle
	m.handle = nil
	m.state = StateDownloaded
	m.mu.Unlock()
	m.notify()
	if err := handle.Release(); err != nil {
		return fmt.Errorf("failed to release handle: %w", err)
	}
	return nil
}

func (m *Manager) to(next State) error {
	m.mu.Lock()
	if err := validateTransition(m.state, next); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.debug {
		ancli.Okf("lifecycle: %v -> %v\n", m.state, next)
	}
	m.state = next
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *Manager) fail(detail string) {
	m.mu.Lock()
	m.errDetail = detail
	m.state = StateError
	m.handle = nil
	m.mu.Unlock()
	ancli.PrintWarn(fmt.Sprintf("lifecycle failure: %v\n", detail))
	m.notify()
}

// setProgress applies download progress as a last-write-wins snapshot,
// clamped to [0,1]. Only meaningful while downloading.
func (m *Manager) setProgress(fraction float64) {
	m.mu.Lock()
	if m.state != StateDownloading {
		m.mu.Unlock()
		return
	}
	m.progress = min(max(fraction, 0), 1)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.Snapshot())
}
