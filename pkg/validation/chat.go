package validation

import "errors"

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateContent validates the content of an incoming chat message. Length
// limits are enforced by the chat service against its configured maximum.
func (v *ChatRequestValidator) ValidateContent(content string) error {
	if content == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}

// ValidateSessionID validates a session identifier
func (v *ChatRequestValidator) ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return errors.New("session_id is required")
	}
	return nil
}
