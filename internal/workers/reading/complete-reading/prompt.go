// internal/workers/reading/complete-reading/prompt.go
package completereading

import (
	"strings"
	"unicode/utf8"

	"moonlight-diary/internal/models"

	"github.com/sashabaranov/go-openai"
)

// ShouldForce reports whether the history carries enough signal to stop
// probing: at least ForceAfterUserTurns user messages, or a last user message
// longer than ForceAfterRunes runes. A non-positive threshold disables its
// condition.
func (c *Config) ShouldForce(history []models.ConversationMessage) bool {
	userTurns := 0
	lastUser := ""
	for _, m := range history {
		if m.Role == models.RoleUser {
			userTurns++
			lastUser = m.Content
		}
	}

	if c.ForceAfterUserTurns > 0 && userTurns >= c.ForceAfterUserTurns {
		return true
	}
	if c.ForceAfterRunes > 0 && utf8.RuneCountInString(strings.TrimSpace(lastUser)) > c.ForceAfterRunes {
		return true
	}
	return false
}

// buildMessages assembles the outbound list: persona prompt, the history as
// received, then the draw directive when forced. history itself is not
// touched.
func buildMessages(systemPrompt, directive string, history []models.ConversationMessage, force bool) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if force {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: directive,
		})
	}
	return out
}
