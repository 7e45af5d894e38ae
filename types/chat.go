package types

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage lives only for the lifetime of the chat page; it is never persisted.
type ChatMessage struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Pending        bool      `json:"pending,omitempty"`
	Error          string    `json:"error,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

type ChatRequest struct {
	UserMessage string `json:"user_message"`
}

type ChatResponse struct {
	AssistantMessage string `json:"assistant_message"`
	ConversationID   string `json:"conversation_id"`
}
