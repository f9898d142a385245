package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"chat-api/internal/logger"
	"chat-api/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// CreateRefreshToken persists a new active token row. Tokens are globally
// unique; a duplicate insert is a storage failure, not something to retry.
func (p *PostgresDB) CreateRefreshToken(userID int64, token string) (*db.RefreshToken, error) {
	rt := &db.RefreshToken{
		Token:  token,
		UserID: userID,
	}

	query := `
	INSERT INTO refresh_tokens (token, user_id)
	VALUES ($1, $2)
	RETURNING id, revoked, created_at
	`

	err := p.conn.QueryRow(query, token, userID).Scan(&rt.ID, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating refresh token: %w", err)
	}

	logger.Log.WithField("user_id", userID).Debug("Stored refresh token")
	return rt, nil
}

// GetActiveRefreshToken returns the token row only if it exists and has not
// been revoked. A non-zero maxAge additionally excludes rows older than that,
// a rolling absolute expiry on top of explicit revocation.
func (p *PostgresDB) GetActiveRefreshToken(token string, maxAge time.Duration) (*db.RefreshToken, error) {
	var rt db.RefreshToken

	query := `SELECT id, token, user_id, revoked, created_at FROM refresh_tokens WHERE token = $1 AND revoked = FALSE`
	args := []interface{}{token}

	if maxAge > 0 {
		query += ` AND created_at >= $2`
		args = append(args, time.Now().Add(-maxAge))
	}

	err := p.conn.QueryRow(query, args...).Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return &rt, nil
}

// RevokeRefreshToken marks a token revoked and reports whether a row matched.
// Revoking an unknown or already-revoked token is not an error. A revoked row
// never transitions back to active.
func (p *PostgresDB) RevokeRefreshToken(token string) (bool, error) {
	result, err := p.conn.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return false, fmt.Errorf("error revoking refresh token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error revoking refresh token: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"revoked": affected > 0}).Debug("Refresh token revocation attempted")
	return affected > 0, nil
}
