package tools

import (
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Effects holds the host callbacks which perform the actual UI side effects.
// All callbacks are synchronous and supplied at construction. Nil callbacks
// are tolerated, the dispatch outcome is the same either way.
type Effects struct {
	OnThemeChange  func(theme string)
	OnNotification func(title, message, notificationType string)
	OnNavigate     func(screenID string)
}

// Outcome is the result of attempting to dispatch a decoded call. It is
// returned as data, dispatch never panics or returns an error.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Label is a rendered call signature used for audit/display.
	Label string `json:"label"`
}

// Dispatcher maps a decoded call onto the fixed set of known actions and
// invokes exactly one effect callback. It holds no state beyond the injected
// effects.
type Dispatcher struct {
	effects Effects
}

func NewDispatcher(effects Effects) *Dispatcher {
	return &Dispatcher{effects: effects}
}

// Dispatch the call. Parameter values are passed through verbatim, the model
// is trusted to emit values consistent with the enums in its system prompt.
func (d *Dispatcher) Dispatch(call Call) Outcome {
	if misc.Truthy(os.Getenv("DEBUG_CALL")) {
		ancli.Noticef("dispatching call: %v", debug.IndentedJsonFmt(call))
	}
	label := call.PrettyPrint()
	switch call.Name {
	case ChangeTheme.Name:
		theme, ok := call.Inputs["theme"]
		if !ok {
			return Outcome{Message: "Missing theme parameter", Label: label}
		}
		if d.effects.OnThemeChange != nil {
			d.effects.OnThemeChange(theme)
		}
		return Outcome{Success: true, Message: fmt.Sprintf("Theme changed to %v", theme), Label: label}
	case ShowNotification.Name:
		message, ok := call.Inputs["message"]
		if !ok {
			return Outcome{Message: "Missing message parameter", Label: label}
		}
		title := call.Inputs["title"]
		if title == "" {
			title = "Notification"
		}
		notificationType := call.Inputs["type"]
		if notificationType == "" {
			notificationType = "info"
		}
		if d.effects.OnNotification != nil {
			d.effects.OnNotification(title, message, notificationType)
		}
		return Outcome{Success: true, Message: fmt.Sprintf("Notification shown: %v", message), Label: label}
	case NavigateToScreen.Name:
		screen, ok := call.Inputs["screen"]
		if !ok {
			return Outcome{Message: "Missing screen parameter", Label: label}
		}
		if d.effects.OnNavigate != nil {
			d.effects.OnNavigate(screen)
		}
		return Outcome{Success: true, Message: fmt.Sprintf("Navigated to %v", screen), Label: label}
	default:
		return Outcome{Message: fmt.Sprintf("Unknown function: %v", call.Name), Label: label}
	}
}
