package chat

import "strings"

// Turn is one entry of the conversation transcript a client sends along with
// search requests.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the turn was written by a human participant.
func (t Turn) IsUser() bool {
	role := strings.ToLower(strings.TrimSpace(t.Role))
	return role == "" || role == "user" || role == "human"
}

// IsAssistant reports whether the turn was produced by the assistant.
func (t Turn) IsAssistant() bool {
	role := strings.ToLower(strings.TrimSpace(t.Role))
	return role == "assistant" || role == "model" || role == "ai"
}

// Transcript renders the conversation as plain "role: content" lines, skipping
// empty turns.
func Transcript(turns []Turn) string {
	var builder strings.Builder
	for _, turn := range turns {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		role := "user"
		if turn.IsAssistant() {
			role = "assistant"
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(role)
		builder.WriteString(": ")
		builder.WriteString(content)
	}
	return builder.String()
}
