package chat

import (
	"chat-api/internal/repository/db"
	"chat-api/internal/service/llm"
)

// WindowHistory projects stored messages to model turns, keeping only the
// last limit messages in their original order. Identifiers and timestamps are
// dropped; the model only sees role and content.
func WindowHistory(messages []db.Message, limit int) []llm.Message {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}
