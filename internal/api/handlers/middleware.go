package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"chat-api/internal/logger"
	"chat-api/internal/security"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

// UserContextKey carries the authenticated user id through the request context
const UserContextKey contextKey = "user_id"

const requestIDKey contextKey = "request_id"

// AuthMiddleware verifies the bearer access token and puts the user id into
// the request context.
func AuthMiddleware(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			NewAppError(http.StatusUnauthorized, "Missing authorization header", nil).Send(w)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
			return
		}

		subject, err := security.ParseAccessToken(secret, parts[1])
		if err != nil {
			NewAppError(http.StatusUnauthorized, "Invalid token", err).Send(w)
			return
		}

		userID, err := strconv.ParseInt(subject, 10, 64)
		if err != nil {
			NewAppError(http.StatusUnauthorized, "Invalid token", err).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequestIDMiddleware tags every request with an id and logs its method and path
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		logger.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("Handling request")

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORSMiddleware allows the configured origins. SSE responses need the
// exposed headers for the frontend EventSource polyfill.
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "*")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func userIDFromContext(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserContextKey).(int64)
	return userID, ok
}
