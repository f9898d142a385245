package postgres

import (
	"database/sql"
	"fmt"

	"chat-api/internal/logger"
	"chat-api/internal/repository/db"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrEmailTaken is returned when the email unique constraint is violated.
var ErrEmailTaken = fmt.Errorf("email already registered")

// CreateUser inserts a new user row. The password must already be hashed.
func (p *PostgresDB) CreateUser(email, passwordHash string) (*db.User, error) {
	user := &db.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	query := `
	INSERT INTO users (email, password_hash)
	VALUES ($1, $2)
	RETURNING id, is_active, is_superuser, created_at
	`

	err := p.conn.QueryRow(query, email, passwordHash).
		Scan(&user.ID, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"email": email, "user_id": user.ID}).Info("Created new user")
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (p *PostgresDB) GetUserByEmail(email string) (*db.User, error) {
	var user db.User
	query := `SELECT id, email, password_hash, is_active, is_superuser, created_at FROM users WHERE email = $1`

	err := p.conn.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by id
func (p *PostgresDB) GetUserByID(id int64) (*db.User, error) {
	var user db.User
	query := `SELECT id, email, password_hash, is_active, is_superuser, created_at FROM users WHERE id = $1`

	err := p.conn.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}
