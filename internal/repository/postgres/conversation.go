package postgres

import (
	"database/sql"
	"fmt"

	"chat-api/internal/logger"
	"chat-api/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// CreateConversation creates a new conversation for a user
func (p *PostgresDB) CreateConversation(userID int64, sessionID, title string) (*db.Conversation, error) {
	conv := &db.Conversation{
		UserID:    userID,
		SessionID: sessionID,
		Title:     title,
	}

	query := `
	INSERT INTO conversations (user_id, session_id, title)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`

	err := p.conn.QueryRow(query, userID, sessionID, title).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": conv.ID, "user_id": userID}).Info("Created new conversation")
	return conv, nil
}

// GetConversationsByUser retrieves a user's conversations, optionally scoped
// to one session, most recent first.
func (p *PostgresDB) GetConversationsByUser(userID int64, sessionID string) ([]db.Conversation, error) {
	query := `
	SELECT id, user_id, session_id, COALESCE(title, ''), created_at
	FROM conversations
	WHERE user_id = $1
	`
	args := []interface{}{userID}

	if sessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []db.Conversation
	for rows.Next() {
		var conv db.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

// GetConversation retrieves a conversation scoped to its owner and session
func (p *PostgresDB) GetConversation(id, userID int64, sessionID string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `
	SELECT id, user_id, session_id, COALESCE(title, ''), created_at
	FROM conversations
	WHERE id = $1 AND user_id = $2 AND session_id = $3
	`

	err := p.conn.QueryRow(query, id, userID, sessionID).
		Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &conv, nil
}

// UpdateConversationTitle sets a conversation's title
func (p *PostgresDB) UpdateConversationTitle(id int64, title string) error {
	if _, err := p.conn.Exec(`UPDATE conversations SET title = $1 WHERE id = $2`, title, id); err != nil {
		return fmt.Errorf("error updating conversation title: %w", err)
	}

	logger.Log.WithField("conversation_id", id).Debug("Updated conversation title")
	return nil
}

// DeleteConversation deletes a conversation and, via cascade, its messages.
// Returns whether a row matched the owner/session scope.
func (p *PostgresDB) DeleteConversation(id, userID int64, sessionID string) (bool, error) {
	result, err := p.conn.Exec(
		`DELETE FROM conversations WHERE id = $1 AND user_id = $2 AND session_id = $3`,
		id, userID, sessionID,
	)
	if err != nil {
		return false, fmt.Errorf("error deleting conversation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error deleting conversation: %w", err)
	}

	if affected > 0 {
		logger.Log.WithField("conversation_id", id).Info("Deleted conversation")
	}
	return affected > 0, nil
}
