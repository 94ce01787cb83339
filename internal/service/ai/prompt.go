package ai

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Prompt is the three-part prompt sent on every turn: the persona as system
// instruction, the full prior history, and the user input supplied at call time.
type Prompt struct {
	System  string
	History []chat.Turn
}

// BuildPrompt assembles a Prompt from the persona text and the conversation so far.
// History is copied and never truncated.
func BuildPrompt(personaText string, history []chat.Turn) (Prompt, error) {
	if strings.TrimSpace(personaText) == "" {
		return Prompt{}, fmt.Errorf("%w: persona prompt is empty", chat.ErrConfiguration)
	}

	copied := make([]chat.Turn, len(history))
	copy(copied, history)
	return Prompt{System: personaText, History: copied}, nil
}

// HistoryMessages converts history turns to eino messages, skipping unknown roles.
func (p Prompt) HistoryMessages() []*schema.Message {
	if len(p.History) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(p.History))
	for _, turn := range p.History {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return history
}

// Messages renders the full ordered message list for input.
func (p Prompt) Messages(input string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(p.History)+2)
	messages = append(messages, schema.SystemMessage(p.System))
	messages = append(messages, p.HistoryMessages()...)
	messages = append(messages, schema.UserMessage(input))
	return messages
}
