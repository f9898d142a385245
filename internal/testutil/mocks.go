package testutil

import (
	"context"
	"errors"
	"time"

	"chat-api/internal/repository/db"
	"chat-api/internal/service/llm"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// User mocks
	CreateUserFunc     func(email, passwordHash string) (*db.User, error)
	GetUserByEmailFunc func(email string) (*db.User, error)
	GetUserByIDFunc    func(id int64) (*db.User, error)

	// Refresh token mocks
	CreateRefreshTokenFunc    func(userID int64, token string) (*db.RefreshToken, error)
	GetActiveRefreshTokenFunc func(token string, maxAge time.Duration) (*db.RefreshToken, error)
	RevokeRefreshTokenFunc    func(token string) (bool, error)

	// Conversation mocks
	CreateConversationFunc      func(userID int64, sessionID, title string) (*db.Conversation, error)
	GetConversationsByUserFunc  func(userID int64, sessionID string) ([]db.Conversation, error)
	GetConversationFunc         func(id, userID int64, sessionID string) (*db.Conversation, error)
	UpdateConversationTitleFunc func(id int64, title string) error
	DeleteConversationFunc      func(id, userID int64, sessionID string) (bool, error)

	// Message mocks
	AddMessageFunc              func(conversationID int64, role, content string) (*db.Message, error)
	GetConversationMessagesFunc func(conversationID int64) ([]db.Message, error)
}

var _ db.Database = (*MockDatabase)(nil)

func (m *MockDatabase) CreateUser(email, passwordHash string) (*db.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(email, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByID(id int64) (*db.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) CreateRefreshToken(userID int64, token string) (*db.RefreshToken, error) {
	if m.CreateRefreshTokenFunc != nil {
		return m.CreateRefreshTokenFunc(userID, token)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetActiveRefreshToken(token string, maxAge time.Duration) (*db.RefreshToken, error) {
	if m.GetActiveRefreshTokenFunc != nil {
		return m.GetActiveRefreshTokenFunc(token, maxAge)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) RevokeRefreshToken(token string) (bool, error) {
	if m.RevokeRefreshTokenFunc != nil {
		return m.RevokeRefreshTokenFunc(token)
	}
	return false, errors.New("not implemented")
}

func (m *MockDatabase) CreateConversation(userID int64, sessionID, title string) (*db.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(userID, sessionID, title)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationsByUser(userID int64, sessionID string) ([]db.Conversation, error) {
	if m.GetConversationsByUserFunc != nil {
		return m.GetConversationsByUserFunc(userID, sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversation(id, userID int64, sessionID string) (*db.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(id, userID, sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) UpdateConversationTitle(id int64, title string) error {
	if m.UpdateConversationTitleFunc != nil {
		return m.UpdateConversationTitleFunc(id, title)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) DeleteConversation(id, userID int64, sessionID string) (bool, error) {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(id, userID, sessionID)
	}
	return false, errors.New("not implemented")
}

func (m *MockDatabase) AddMessage(conversationID int64, role, content string) (*db.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(conversationID, role, content)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationMessages(conversationID int64) ([]db.Message, error) {
	if m.GetConversationMessagesFunc != nil {
		return m.GetConversationMessagesFunc(conversationID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) Close() error {
	return nil
}

// MockProvider is a mock implementation of llm.Provider for testing
type MockProvider struct {
	GenerateFunc func(ctx context.Context, prompt string, history []llm.Message) string
	StreamFunc   func(ctx context.Context, prompt string, history []llm.Message) <-chan string
}

var _ llm.Provider = (*MockProvider)(nil)

func (m *MockProvider) Generate(ctx context.Context, prompt string, history []llm.Message) string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, history)
	}
	return ""
}

func (m *MockProvider) Stream(ctx context.Context, prompt string, history []llm.Message) <-chan string {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, prompt, history)
	}
	chunks := make(chan string)
	close(chunks)
	return chunks
}

// StreamOf returns a closed-after-draining channel carrying the given chunks
func StreamOf(chunks ...string) <-chan string {
	out := make(chan string, len(chunks))
	for _, chunk := range chunks {
		out <- chunk
	}
	close(out)
	return out
}
