package db

import (
	"errors"
	"time"
)

// Database defines the storage operations the services depend on
type Database interface {
	// Users
	CreateUser(email, passwordHash string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id int64) (*User, error)

	// Refresh token ledger
	CreateRefreshToken(userID int64, token string) (*RefreshToken, error)
	GetActiveRefreshToken(token string, maxAge time.Duration) (*RefreshToken, error)
	RevokeRefreshToken(token string) (bool, error)

	// Conversations
	CreateConversation(userID int64, sessionID, title string) (*Conversation, error)
	GetConversationsByUser(userID int64, sessionID string) ([]Conversation, error)
	GetConversation(id, userID int64, sessionID string) (*Conversation, error)
	UpdateConversationTitle(id int64, title string) error
	DeleteConversation(id, userID int64, sessionID string) (bool, error)

	// Messages
	AddMessage(conversationID int64, role, content string) (*Message, error)
	GetConversationMessages(conversationID int64) ([]Message, error)

	Close() error
}

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("record not found")
