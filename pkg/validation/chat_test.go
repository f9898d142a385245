package validation

import (
	"strings"
	"testing"
)

func TestChatRequestValidator_ValidateContent(t *testing.T) {
	validator := NewChatRequestValidator()

	tests := []struct {
		name    string
		content string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid content",
			content: "Hello, how are you?",
			wantErr: false,
		},
		{
			name:    "single character",
			content: "?",
			wantErr: false,
		},
		{
			name:    "long content passes here",
			content: strings.Repeat("a", 5000),
			wantErr: false,
		},
		{
			name:    "empty content",
			content: "",
			wantErr: true,
			errMsg:  "content cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateContent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateContent() error message = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}

func TestChatRequestValidator_ValidateSessionID(t *testing.T) {
	validator := NewChatRequestValidator()

	tests := []struct {
		name      string
		sessionID string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid session id",
			sessionID: "b2a1f9a0-0f4d-4a5f-9f64-2f4f6f2b1c3d",
			wantErr:   false,
		},
		{
			name:      "opaque session id",
			sessionID: "session-42",
			wantErr:   false,
		},
		{
			name:      "empty session id",
			sessionID: "",
			wantErr:   true,
			errMsg:    "session_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSessionID(tt.sessionID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateSessionID() error message = %v, want to contain %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}
