// internal/models/message.go
package models

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one turn of the client-held history.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DefaultConversation stands in for an unreadable request body.
func DefaultConversation() []ConversationMessage {
	return []ConversationMessage{{Role: RoleUser, Content: "안녕"}}
}

// CleanConversation drops messages with an unknown role or blank content.
// The input slice is not modified.
func CleanConversation(messages []ConversationMessage) []ConversationMessage {
	out := make([]ConversationMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}
