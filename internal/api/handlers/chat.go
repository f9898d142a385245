package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chat-api/internal/logger"
	"chat-api/internal/repository/db"
	chatService "chat-api/internal/service/chat"
	"chat-api/pkg/validation"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

type MessagePairOut struct {
	UserMessage      MessageOut `json:"user_message"`
	AssistantMessage MessageOut `json:"assistant_message"`
}

// ChatHandlers exposes the message endpoints, one-shot and streaming
type ChatHandlers struct {
	service   *chatService.ChatService
	validator *validation.ChatRequestValidator
}

// NewChatHandlers creates ChatHandlers around the chat service
func NewChatHandlers(service *chatService.ChatService) *ChatHandlers {
	return &ChatHandlers{
		service:   service,
		validator: validation.NewChatRequestValidator(),
	}
}

func messageOut(msg *db.Message) MessageOut {
	return MessageOut{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (h *ChatHandlers) parseRequest(w http.ResponseWriter, r *http.Request) (chatService.SendMessageRequest, bool) {
	var serviceReq chatService.SendMessageRequest

	userID, ok := userIDFromContext(r)
	if !ok {
		NewAppError(http.StatusUnauthorized, "Missing user context", nil).Send(w)
		return serviceReq, false
	}

	id, err := conversationID(r)
	if err != nil {
		NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
		return serviceReq, false
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return serviceReq, false
	}

	if err := h.validator.ValidateContent(req.Content); err != nil {
		NewAppError(http.StatusBadRequest, err.Error(), nil).Send(w)
		return serviceReq, false
	}

	serviceReq = chatService.SendMessageRequest{
		UserID:         userID,
		ConversationID: id,
		SessionID:      r.URL.Query().Get("session_id"),
		Content:        req.Content,
	}
	return serviceReq, true
}

func sendChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrMessageTooLong):
		NewAppError(http.StatusBadRequest, "Message too long", nil).Send(w)
	case errors.Is(err, chatService.ErrConversationNotFound):
		NewAppError(http.StatusNotFound, "Conversation not found", nil).Send(w)
	default:
		NewAppError(http.StatusInternalServerError, "Error processing message", err).Send(w)
	}
}

// SendMessage handles POST /conversations/{id}/messages
func (h *ChatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	userMsg, assistantMsg, err := h.service.SendMessage(r.Context(), req)
	if err != nil {
		sendChatError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, MessagePairOut{
		UserMessage:      messageOut(userMsg),
		AssistantMessage: messageOut(assistantMsg),
	})
}

// SendMessageStream handles POST /conversations/{id}/messages/stream as a
// server-sent-events response: message events for each reply chunk, then one
// done event once the assistant message has been persisted.
func (h *ChatHandlers) SendMessageStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		NewAppError(http.StatusInternalServerError, "Streaming not supported", nil).Send(w)
		return
	}

	events, err := h.service.SendMessageStream(r.Context(), req)
	if err != nil {
		sendChatError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for event := range events {
		if event.Done {
			writeSSE(w, flusher, "done", "complete")
			continue
		}
		writeSSE(w, flusher, "message", event.Chunk)
	}

	if r.Context().Err() != nil {
		logger.Log.Debug("Client disconnected mid-stream")
	}
}

// writeSSE emits one server-sent event. Multi-line data becomes multiple
// data: lines per the SSE framing rules.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
	flusher.Flush()
}
