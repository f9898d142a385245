package llm

import "context"

// Message is a single turn sent to the model
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider generates assistant replies. Implementations never surface
// provider failures to the caller: errors are logged and absorbed into
// in-band placeholder text so chat endpoints stay conversational.
type Provider interface {
	// Generate returns the complete reply text for a prompt and history.
	Generate(ctx context.Context, prompt string, history []Message) string

	// Stream returns a finite, non-restartable sequence of reply chunks.
	// The channel is closed once the reply is complete or the context is
	// cancelled.
	Stream(ctx context.Context, prompt string, history []Message) <-chan string
}
