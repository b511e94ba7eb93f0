package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Chat struct {
	Created  time.Time `json:"created,omitempty"`
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FirstSystemMessage returns the first encountered Message with role 'system'
func (c *Chat) FirstSystemMessage() (Message, error) {
	for _, msg := range c.Messages {
		if msg.Role == "system" {
			return msg, nil
		}
	}
	return Message{}, errors.New("failed to find any system message")
}

func (c *Chat) LastOfRole(role string) (Message, int, error) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		msg := c.Messages[i]
		if msg.Role == role {
			return msg, i, nil
		}
	}
	return Message{}, -1, fmt.Errorf("failed to find any %v message", role)
}

// Transcript flattens the chat into the raw prompt string handed to the
// completion engine. The system message is printed bare, conversational turns
// are prefixed with their role, and a trailing 'assistant:' cues the model to
// produce the next turn.
func (c *Chat) Transcript() string {
	var sb strings.Builder
	for _, msg := range c.Messages {
		if msg.Role == "system" {
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "\n%v: %v", msg.Role, msg.Content)
	}
	sb.WriteString("\nassistant:")
	return sb.String()
}
