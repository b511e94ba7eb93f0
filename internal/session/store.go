package session

import (
	"fmt"
	"path/filepath"

	"github.com/edvinh/lui/internal/models"
	"github.com/edvinh/lui/internal/utils"
)

// Save writes the conversation as json into the conversations directory
// below confDir, keyed by chat ID.
func (s *Session) Save(confDir string) error {
	if len(s.chat.Messages) == 0 {
		return nil
	}
	saveAt := filepath.Join(confDir, "conversations", fmt.Sprintf("%v.json", s.chat.ID))
	if err := utils.CreateFile(saveAt, &s.chat); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// LoadChat reads a previously saved conversation from path.
func LoadChat(path string) (models.Chat, error) {
	var chat models.Chat
	if err := utils.ReadAndUnmarshal(path, &chat); err != nil {
		return models.Chat{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	return chat, nil
}

// Resume continues an earlier conversation within this session, keeping its
// ID and history.
func (s *Session) Resume(chat models.Chat) {
	s.chat = chat
}
