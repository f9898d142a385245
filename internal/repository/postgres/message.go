package postgres

import (
	"fmt"

	"chat-api/internal/logger"
	"chat-api/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// AddMessage appends a message to a conversation
func (p *PostgresDB) AddMessage(conversationID int64, role, content string) (*db.Message, error) {
	msg := &db.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	query := `
	INSERT INTO messages (conversation_id, role, content)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`

	err := p.conn.QueryRow(query, conversationID, role, content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error adding message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"role":            role,
		"content_length":  len(content),
	}).Debug("Added message to conversation")

	return msg, nil
}

// GetConversationMessages retrieves a conversation's messages in creation order
func (p *PostgresDB) GetConversationMessages(conversationID int64) ([]db.Message, error) {
	query := `
	SELECT id, conversation_id, role, content, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC
	`

	rows, err := p.conn.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		var msg db.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
