package main

import (
	"net/http"

	"chat-api/internal/api/handlers"
	"chat-api/internal/config"
	"chat-api/internal/logger"
	"chat-api/internal/repository/postgres"
	authService "chat-api/internal/service/auth"
	chatService "chat-api/internal/service/chat"
	conversationService "chat-api/internal/service/conversation"
	"chat-api/internal/service/llm"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments provide the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	database, err := postgres.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	provider := llm.NewGroqProvider(&cfg.LLM)

	authHandlers := handlers.NewAuthHandlers(authService.NewAuthService(database, &cfg.Auth))
	conversationHandlers := handlers.NewConversationHandlers(conversationService.NewConversationService(database))
	chatHandlers := handlers.NewChatHandlers(chatService.NewChatService(database, cfg, provider))

	secret := cfg.Auth.JWTSecret

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /auth/register", authHandlers.Register)
	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/refresh", authHandlers.Refresh)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /health", handlers.HealthHandler(&cfg.LLM))

	// Protected routes
	mux.HandleFunc("POST /conversations", handlers.AuthMiddleware(secret, conversationHandlers.Create))
	mux.HandleFunc("GET /conversations", handlers.AuthMiddleware(secret, conversationHandlers.List))
	mux.HandleFunc("GET /conversations/{id}", handlers.AuthMiddleware(secret, conversationHandlers.Get))
	mux.HandleFunc("DELETE /conversations/{id}", handlers.AuthMiddleware(secret, conversationHandlers.Delete))
	mux.HandleFunc("GET /conversations/{id}/messages", handlers.AuthMiddleware(secret, conversationHandlers.Messages))
	mux.HandleFunc("POST /conversations/{id}/messages", handlers.AuthMiddleware(secret, chatHandlers.SendMessage))
	mux.HandleFunc("POST /conversations/{id}/messages/stream", handlers.AuthMiddleware(secret, chatHandlers.SendMessageStream))

	handler := handlers.RequestIDMiddleware(handlers.CORSMiddleware(cfg.Server.AllowedOrigins, mux))

	logger.Log.WithField("port", cfg.Server.Port).Info("Server starting")
	if err := http.ListenAndServe(":"+cfg.Server.Port, handler); err != nil {
		logger.Log.WithError(err).Fatal("Server failed")
	}
}
