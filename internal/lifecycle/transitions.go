package lifecycle

import (
	"errors"
	"fmt"
)

// State is the current phase of model acquisition/activation. Exactly one
// state is active at a time.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingConsent State = "awaitingConsent"
	StateDownloading     State = "downloading"
	StateDownloaded      State = "downloaded"
	StateLoading         State = "loading"
	StateReady           State = "ready"
	StateError           State = "error"
)

var (
	ErrBadTransition = errors.New("invalid lifecycle transition")
	// ErrNotReady is returned on generation requests outside the ready
	// state. A caller bug, surfaced as an immediate rejection rather than
	// a lifecycle transition.
	ErrNotReady = errors.New("model is not ready")
)

// awaitingConsent -> downloaded and error -> downloaded cover the shortcut
// where the asset already exists on disk and no fetch is issued.
var allowedTransitions = map[State]map[State]struct{}{
	StateIdle: {
		StateAwaitingConsent: {},
	},
	StateAwaitingConsent: {
		StateIdle:        {},
		StateDownloading: {},
		StateDownloaded:  {},
	},
	StateDownloading: {
		StateDownloaded: {},
		StateError:      {},
	},
	StateDownloaded: {
		StateLoading: {},
		StateError:   {},
	},
	StateLoading: {
		StateReady: {},
		StateError: {},
	},
	StateReady: {
		StateDownloaded: {},
	},
	StateError: {
		StateIdle:        {},
		StateDownloading: {},
		StateDownloaded:  {},
	},
}

func validateTransition(from, to State) error {
	if from == to {
		return nil
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown source state %q", ErrBadTransition, from)
	}
	if _, ok := allowed[to]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
	}
	return nil
}
