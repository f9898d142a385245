package chat

import (
	"context"
	"errors"
	"strings"

	"chat-api/internal/config"
	"chat-api/internal/logger"
	"chat-api/internal/repository/db"
	"chat-api/internal/service/llm"

	"github.com/sirupsen/logrus"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// titleLength is how many characters of the first message become the
	// conversation title.
	titleLength = 60

	// emptyReplyPlaceholder is stored when a reply produced no text at all,
	// so no message row ever has empty content.
	emptyReplyPlaceholder = "[empty response]"
)

var (
	// ErrMessageTooLong is returned when the incoming content exceeds the
	// configured maximum input length.
	ErrMessageTooLong = errors.New("message too long")
	// ErrConversationNotFound is returned when the conversation does not
	// exist or is not owned by the requesting user and session.
	ErrConversationNotFound = errors.New("conversation not found")
)

// SendMessageRequest identifies the conversation and carries the user's turn
type SendMessageRequest struct {
	UserID         int64
	ConversationID int64
	SessionID      string
	Content        string
}

// StreamEvent is one step of a streaming reply. Done is sent exactly once,
// after the assistant message has been persisted.
type StreamEvent struct {
	Chunk string
	Done  bool
}

// ChatService orchestrates a chat turn: conversation lookup, history
// windowing, user-turn persistence, reply generation and assistant-turn
// persistence.
type ChatService struct {
	db       db.Database
	config   *config.AppConfig
	provider llm.Provider
}

// NewChatService creates a ChatService backed by the given store and provider
func NewChatService(database db.Database, cfg *config.AppConfig, provider llm.Provider) *ChatService {
	return &ChatService{
		db:       database,
		config:   cfg,
		provider: provider,
	}
}

// prepareTurn runs the steps shared by both flows: validation, scoped
// conversation lookup, lazy title, history snapshot and user-turn persistence.
func (s *ChatService) prepareTurn(req SendMessageRequest) (*db.Message, []llm.Message, error) {
	if len(req.Content) > s.config.LLM.MaxInputLength {
		return nil, nil, ErrMessageTooLong
	}

	conv, err := s.db.GetConversation(req.ConversationID, req.UserID, req.SessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrConversationNotFound
		}
		return nil, nil, err
	}

	if conv.Title == "" {
		title := req.Content
		if runes := []rune(title); len(runes) > titleLength {
			title = string(runes[:titleLength])
		}
		if err := s.db.UpdateConversationTitle(conv.ID, title); err != nil {
			return nil, nil, err
		}
	}

	messages, err := s.db.GetConversationMessages(conv.ID)
	if err != nil {
		return nil, nil, err
	}
	history := WindowHistory(messages, s.config.LLM.MaxHistoryMessages)

	userMsg, err := s.db.AddMessage(conv.ID, roleUser, req.Content)
	if err != nil {
		return nil, nil, err
	}

	return userMsg, history, nil
}

// SendMessage handles a one-shot chat turn and returns the persisted
// user/assistant message pair.
func (s *ChatService) SendMessage(ctx context.Context, req SendMessageRequest) (*db.Message, *db.Message, error) {
	userMsg, history, err := s.prepareTurn(req)
	if err != nil {
		return nil, nil, err
	}

	reply := s.provider.Generate(ctx, req.Content, history)

	assistantMsg, err := s.db.AddMessage(req.ConversationID, roleAssistant, reply)
	if err != nil {
		return nil, nil, err
	}

	return userMsg, assistantMsg, nil
}

// SendMessageStream handles a streaming chat turn. Validation, lookup and
// user-turn persistence happen synchronously so callers can still map errors
// to status codes; the returned channel then carries reply chunks followed by
// a single Done event once the assistant message is persisted. If the context
// is cancelled mid-stream, consumption stops and nothing is persisted.
func (s *ChatService) SendMessageStream(ctx context.Context, req SendMessageRequest) (<-chan StreamEvent, error) {
	_, history, err := s.prepareTurn(req)
	if err != nil {
		return nil, err
	}

	// The user turn was just persisted; append it in memory instead of
	// re-reading storage.
	history = append(history, llm.Message{Role: roleUser, Content: req.Content})

	events := make(chan StreamEvent)

	go func() {
		defer close(events)

		var parts []string
		for chunk := range s.provider.Stream(ctx, req.Content, history) {
			parts = append(parts, chunk)
			select {
			case events <- StreamEvent{Chunk: chunk}:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		reply := strings.TrimSpace(strings.Join(parts, ""))

		// A stream that legitimately produced nothing falls back to a
		// one-shot reply so the client still sees something.
		if reply == "" {
			reply = s.provider.Generate(ctx, req.Content, history)
			select {
			case events <- StreamEvent{Chunk: reply}:
			case <-ctx.Done():
				return
			}
			reply = strings.TrimSpace(reply)
		}

		if reply == "" {
			reply = emptyReplyPlaceholder
		}

		if _, err := s.db.AddMessage(req.ConversationID, roleAssistant, reply); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"conversation_id": req.ConversationID,
			}).Error("Failed to persist assistant message")
			return
		}

		select {
		case events <- StreamEvent{Done: true}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}
