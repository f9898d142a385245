package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chat-api/internal/repository/db"
	conversationService "chat-api/internal/service/conversation"
)

type CreateConversationRequest struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
}

type ConversationOut struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationDetailOut struct {
	ConversationOut
	Messages []MessageOut `json:"messages"`
}

type MessageOut struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationHandlers exposes the conversation CRUD endpoints
type ConversationHandlers struct {
	service *conversationService.ConversationService
}

// NewConversationHandlers creates ConversationHandlers around the service
func NewConversationHandlers(service *conversationService.ConversationService) *ConversationHandlers {
	return &ConversationHandlers{service: service}
}

func conversationOut(conv *db.Conversation) ConversationOut {
	return ConversationOut{
		ID:        conv.ID,
		UserID:    conv.UserID,
		SessionID: conv.SessionID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
	}
}

func messagesOut(messages []db.Message) []MessageOut {
	out := make([]MessageOut, 0, len(messages))
	for _, msg := range messages {
		out = append(out, MessageOut{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Role:           msg.Role,
			Content:        msg.Content,
			CreatedAt:      msg.CreatedAt,
		})
	}
	return out
}

// conversationID parses the {id} path parameter
func conversationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Create handles POST /conversations
func (h *ConversationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return
	}

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return
	}

	conv, err := h.service.Create(userID, req.SessionID, req.Title)
	if err != nil {
		NewAppError(http.StatusInternalServerError, "Error creating conversation", err).Send(w)
		return
	}

	sendJSON(w, http.StatusCreated, conversationOut(conv))
}

// List handles GET /conversations
func (h *ConversationHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return
	}

	conversations, err := h.service.List(userID, r.URL.Query().Get("session_id"))
	if err != nil {
		NewAppError(http.StatusInternalServerError, "Error listing conversations", err).Send(w)
		return
	}

	out := make([]ConversationOut, 0, len(conversations))
	for i := range conversations {
		out = append(out, conversationOut(&conversations[i]))
	}
	sendJSON(w, http.StatusOK, out)
}

// Get handles GET /conversations/{id}
func (h *ConversationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return
	}

	id, err := conversationID(r)
	if err != nil {
		NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
		return
	}

	conv, messages, err := h.service.Get(id, userID, r.URL.Query().Get("session_id"))
	if err != nil {
		if errors.Is(err, conversationService.ErrNotFound) {
			NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error retrieving conversation", err).Send(w)
		return
	}

	sendJSON(w, http.StatusOK, ConversationDetailOut{
		ConversationOut: conversationOut(conv),
		Messages:        messagesOut(messages),
	})
}

// Messages handles GET /conversations/{id}/messages
func (h *ConversationHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return
	}

	id, err := conversationID(r)
	if err != nil {
		NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
		return
	}

	messages, err := h.service.Messages(id, userID, r.URL.Query().Get("session_id"))
	if err != nil {
		if errors.Is(err, conversationService.ErrNotFound) {
			NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error retrieving messages", err).Send(w)
		return
	}

	sendJSON(w, http.StatusOK, messagesOut(messages))
}

// Delete handles DELETE /conversations/{id}
func (h *ConversationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return
	}

	id, err := conversationID(r)
	if err != nil {
		NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
		return
	}

	if err := h.service.Delete(id, userID, r.URL.Query().Get("session_id")); err != nil {
		if errors.Is(err, conversationService.ErrNotFound) {
			NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error deleting conversation", err).Send(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
