package auth

import (
	"errors"
	"strconv"

	"chat-api/internal/config"
	"chat-api/internal/logger"
	"chat-api/internal/repository/db"
	"chat-api/internal/security"
)

var (
	// ErrEmailTaken is returned when registering an already-known email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is unknown,
	// revoked or past its maximum age.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenPair is an access/refresh token pair issued on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles registration, login and the refresh token lifecycle
type AuthService struct {
	db     db.Database
	config *config.AuthConfig
}

// NewAuthService creates an AuthService backed by the given store
func NewAuthService(database db.Database, cfg *config.AuthConfig) *AuthService {
	return &AuthService{db: database, config: cfg}
}

// Register creates a new user with a hashed password
func (s *AuthService) Register(email, password string) (*db.User, error) {
	if _, err := s.db.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.db.CreateUser(email, hash)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Registered new user")
	return user, nil
}

// Login verifies credentials and issues a fresh token pair
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user.ID)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Two concurrent refreshes of the same token may both observe
// it as active before either revokes it; this layer does not deduplicate them.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	rt, err := s.db.GetActiveRefreshToken(refreshToken, s.config.RefreshTokenMaxAge)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if _, err := s.db.RevokeRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", rt.UserID).Debug("Rotated refresh token")
	return s.issuePair(rt.UserID)
}

// Logout revokes a refresh token and reports whether one was found. Revoking
// an unknown or already-revoked token is not an error here.
func (s *AuthService) Logout(refreshToken string) (bool, error) {
	return s.db.RevokeRefreshToken(refreshToken)
}

func (s *AuthService) issuePair(userID int64) (*TokenPair, error) {
	accessToken, err := security.IssueAccessToken(s.config.JWTSecret, strconv.FormatInt(userID, 10), s.config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.CreateRefreshToken(userID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
