package conversation

import (
	"errors"

	"chat-api/internal/repository/db"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a conversation is absent or not owned by the
// requesting user and session.
var ErrNotFound = errors.New("conversation not found")

// ConversationService handles conversation lifecycle operations
type ConversationService struct {
	db db.Database
}

// NewConversationService creates a ConversationService backed by the given store
func NewConversationService(database db.Database) *ConversationService {
	return &ConversationService{db: database}
}

// Create starts a new conversation. When the client does not supply a session
// identifier one is generated.
func (s *ConversationService) Create(userID int64, sessionID, title string) (*db.Conversation, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return s.db.CreateConversation(userID, sessionID, title)
}

// List returns a user's conversations, optionally scoped to one session
func (s *ConversationService) List(userID int64, sessionID string) ([]db.Conversation, error) {
	return s.db.GetConversationsByUser(userID, sessionID)
}

// Get returns a conversation together with its messages in creation order
func (s *ConversationService) Get(id, userID int64, sessionID string) (*db.Conversation, []db.Message, error) {
	conv, err := s.db.GetConversation(id, userID, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	messages, err := s.db.GetConversationMessages(id)
	if err != nil {
		return nil, nil, err
	}

	return conv, messages, nil
}

// Messages returns only a conversation's messages, after a scope check
func (s *ConversationService) Messages(id, userID int64, sessionID string) ([]db.Message, error) {
	_, messages, err := s.Get(id, userID, sessionID)
	return messages, err
}

// Delete removes a conversation and its messages
func (s *ConversationService) Delete(id, userID int64, sessionID string) error {
	found, err := s.db.DeleteConversation(id, userID, sessionID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
