package db

import "time"

// User represents a user in the database
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

// RefreshToken represents a persisted refresh token and its revocation state
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	Revoked   bool
	CreatedAt time.Time
}

// Conversation represents a conversation in the database
type Conversation struct {
	ID        int64
	UserID    int64
	SessionID string
	Title     string
	CreatedAt time.Time
}

// Message represents a message in a conversation
type Message struct {
	ID             int64
	ConversationID int64
	Role           string
	Content        string
	CreatedAt      time.Time
}
