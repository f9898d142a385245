package handlers

import (
	"net/http"

	"chat-api/internal/config"
)

type HealthResponse struct {
	Status          string `json:"status"`
	GeminiKeyLoaded bool   `json:"gemini_key_loaded"`
}

// HealthHandler reports liveness and whether a provider API key is configured.
// The field name predates the switch of providers; clients read it as-is.
func HealthHandler(llmConfig *config.LLMConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, HealthResponse{
			Status:          "ok",
			GeminiKeyLoaded: llmConfig.KeyLoaded(),
		})
	}
}
