package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chat-api/internal/logger"
	authService "chat-api/internal/service/auth"
	"chat-api/pkg/validation"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthHandlers exposes the authentication endpoints
type AuthHandlers struct {
	service   *authService.AuthService
	validator *validation.AuthRequestValidator
}

// NewAuthHandlers creates AuthHandlers around the auth service
func NewAuthHandlers(service *authService.AuthService) *AuthHandlers {
	return &AuthHandlers{
		service:   service,
		validator: validation.NewAuthRequestValidator(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return
	}

	if err := h.validator.ValidateRegisterRequest(req.Email, req.Password); err != nil {
		NewAppError(http.StatusBadRequest, err.Error(), nil).Send(w)
		return
	}

	user, err := h.service.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authService.ErrEmailTaken) {
			NewAppError(http.StatusBadRequest, "Email already registered", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error creating user", err).Send(w)
		return
	}

	sendJSON(w, http.StatusCreated, RegisterResponse{ID: user.ID, Email: user.Email})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return
	}

	if err := h.validator.ValidateLoginRequest(req.Email, req.Password); err != nil {
		NewAppError(http.StatusBadRequest, err.Error(), nil).Send(w)
		return
	}

	pair, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			logger.Log.WithField("email", req.Email).Info("Login failed")
			NewAppError(http.StatusUnauthorized, "Invalid credentials", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error logging in", err).Send(w)
		return
	}

	sendJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh, rotating the presented refresh token
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidRefreshToken) {
			NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil).Send(w)
			return
		}
		NewAppError(http.StatusInternalServerError, "Error refreshing token", err).Send(w)
		return
	}

	sendJSON(w, http.StatusOK, pair)
}

// Logout handles POST /auth/logout. The response bodies are kept exactly as
// clients already expect them, misspelling included.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return
	}

	found, err := h.service.Logout(req.RefreshToken)
	if err != nil {
		NewAppError(http.StatusInternalServerError, "Error logging out", err).Send(w)
		return
	}

	if !found {
		sendJSON(w, http.StatusOK, map[string]string{"error": "Invalid Credintials"})
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"details": "Logged out"})
}
