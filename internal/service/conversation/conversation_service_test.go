package conversation

import (
	"errors"
	"testing"

	"chat-api/internal/repository/db"
	"chat-api/internal/testutil"
)

func TestCreate_PassesThroughSessionID(t *testing.T) {
	var sessionSeen string
	mockDB := &testutil.MockDatabase{
		CreateConversationFunc: func(userID int64, sessionID, title string) (*db.Conversation, error) {
			sessionSeen = sessionID
			return &db.Conversation{ID: 1, UserID: userID, SessionID: sessionID, Title: title}, nil
		},
	}
	service := NewConversationService(mockDB)

	conv, err := service.Create(7, "sess-1", "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if sessionSeen != "sess-1" {
		t.Errorf("Expected session 'sess-1', got '%s'", sessionSeen)
	}
	if conv.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", conv.UserID)
	}
}

func TestCreate_GeneratesSessionIDWhenEmpty(t *testing.T) {
	var sessions []string
	mockDB := &testutil.MockDatabase{
		CreateConversationFunc: func(userID int64, sessionID, title string) (*db.Conversation, error) {
			sessions = append(sessions, sessionID)
			return &db.Conversation{ID: int64(len(sessions)), UserID: userID, SessionID: sessionID}, nil
		},
	}
	service := NewConversationService(mockDB)

	if _, err := service.Create(7, "", ""); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := service.Create(7, "", ""); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if sessions[0] == "" || sessions[1] == "" {
		t.Error("Expected generated session ids to be non-empty")
	}
	if sessions[0] == sessions[1] {
		t.Error("Expected each generated session id to be unique")
	}
}

func TestGet_ReturnsConversationWithMessages(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		GetConversationFunc: func(id, userID int64, sessionID string) (*db.Conversation, error) {
			return &db.Conversation{ID: id, UserID: userID, SessionID: sessionID, Title: "hello"}, nil
		},
		GetConversationMessagesFunc: func(conversationID int64) ([]db.Message, error) {
			return []db.Message{
				{ID: 1, ConversationID: conversationID, Role: "user", Content: "hello"},
				{ID: 2, ConversationID: conversationID, Role: "assistant", Content: "hi"},
			}, nil
		},
	}
	service := NewConversationService(mockDB)

	conv, messages, err := service.Get(1, 7, "sess-1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if conv.ID != 1 {
		t.Errorf("Expected conversation id 1, got %d", conv.ID)
	}
	if len(messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(messages))
	}
}

func TestGet_WrongScopeIsNotFound(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		GetConversationFunc: func(id, userID int64, sessionID string) (*db.Conversation, error) {
			return nil, db.ErrNotFound
		},
	}
	service := NewConversationService(mockDB)

	_, _, err := service.Get(1, 8, "other-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestMessages_ChecksScopeFirst(t *testing.T) {
	var messagesQueried bool
	mockDB := &testutil.MockDatabase{
		GetConversationFunc: func(id, userID int64, sessionID string) (*db.Conversation, error) {
			return nil, db.ErrNotFound
		},
		GetConversationMessagesFunc: func(conversationID int64) ([]db.Message, error) {
			messagesQueried = true
			return nil, nil
		},
	}
	service := NewConversationService(mockDB)

	_, err := service.Messages(1, 8, "other-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
	if messagesQueried {
		t.Error("Expected no message query when the scope check fails")
	}
}

func TestDelete_NotFound(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		DeleteConversationFunc: func(id, userID int64, sessionID string) (bool, error) {
			return false, nil
		},
	}
	service := NewConversationService(mockDB)

	err := service.Delete(99, 7, "sess-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestDelete_Found(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		DeleteConversationFunc: func(id, userID int64, sessionID string) (bool, error) {
			return true, nil
		},
	}
	service := NewConversationService(mockDB)

	if err := service.Delete(1, 7, "sess-1"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}
