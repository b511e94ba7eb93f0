// Package session ties the lifecycle manager, codec and dispatcher together
// into a conversational flow: ready-gate, prompt construction, completion,
// decode, dispatch.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/edvinh/lui/internal/engine"
	"github.com/edvinh/lui/internal/lifecycle"
	"github.com/edvinh/lui/internal/models"
	"github.com/edvinh/lui/internal/proto"
	"github.com/edvinh/lui/internal/tools"
	"github.com/google/uuid"
)

// Reply is what the host renders after a turn: the residual prose, plus the
// dispatch outcome if the model requested an action.
type Reply struct {
	Prose   string
	Outcome *tools.Outcome
	Raw     string
}

// Session serializes user turns against one lifecycle manager. Turns are
// synchronous, a new Ask is only meaningful after the prior one resolved.
type Session struct {
	manager    *lifecycle.Manager
	dispatcher *tools.Dispatcher
	specs      []tools.Specification
	opts       engine.Options
	onToken    func(string)
	chat       models.Chat
	debug      bool
}

func New(manager *lifecycle.Manager, dispatcher *tools.Dispatcher, specs []tools.Specification, opts engine.Options, onToken func(string)) *Session {
	return &Session{
		manager:    manager,
		dispatcher: dispatcher,
		specs:      specs,
		opts:       opts,
		onToken:    onToken,
		chat: models.Chat{
			ID:      uuid.NewString(),
			Created: time.Now(),
		},
		debug: misc.Truthy(os.Getenv("DEBUG")),
	}
}

func (s *Session) Chat() models.Chat {
	return s.chat
}

// Ask sends userText through the model and dispatches any decoded call.
// Returns lifecycle.ErrNotReady when the model has not been loaded.
func (s *Session) Ask(ctx context.Context, userText string) (Reply, error) {
	if !s.manager.IsModelReady() {
		return Reply{}, lifecycle.ErrNotReady
	}
	if len(s.chat.Messages) == 0 {
		s.chat.Messages = append(s.chat.Messages, models.Message{
			Role:    "system",
			Content: proto.SystemPrompt(s.specs),
		})
	}
	s.chat.Messages = append(s.chat.Messages, models.Message{Role: "user", Content: userText})

	raw, err := s.manager.Generate(ctx, s.chat.Transcript(), s.opts, s.onToken)
	if err != nil {
		// Drop the unanswered turn so a retry does not double it up
		s.chat.Messages = s.chat.Messages[:len(s.chat.Messages)-1]
		return Reply{}, fmt.Errorf("failed to generate reply: %w", err)
	}
	s.chat.Messages = append(s.chat.Messages, models.Message{Role: "assistant", Content: raw})
	if s.debug {
		ancli.Okf("raw model response: %v\n", raw)
	}

	reply := Reply{Raw: raw}
	if call, ok := proto.Decode(raw); ok {
		outcome := s.dispatcher.Dispatch(call)
		reply.Outcome = &outcome
		reply.Prose = proto.ExtractProseText(raw)
	} else {
		// Call markers without a well-formed span are shown as prose,
		// no partial-call leakage
		reply.Prose = strings.TrimSpace(raw)
	}
	return reply, nil
}
