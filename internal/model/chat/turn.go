package chat

import "time"

// Role tags who produced a turn. Only user and assistant turns exist.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Turn is one message of a conversation. Text is what the model saw or said;
// Tag is a display-only suffix (the sentiment tag) never sent back to the model.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Tag       string    `json:"tag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Display returns the text shown to the user for this turn.
func (t Turn) Display() string {
	return t.Text + t.Tag
}

// UserTurn builds a user turn stamped with the current time.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text, CreatedAt: time.Now().UTC()}
}

// AssistantTurn builds an assistant turn stamped with the current time.
func AssistantTurn(text, tag string) Turn {
	return Turn{Role: RoleAssistant, Text: text, Tag: tag, CreatedAt: time.Now().UTC()}
}
