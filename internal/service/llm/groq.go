package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chat-api/internal/config"
	"chat-api/internal/logger"

	"github.com/sirupsen/logrus"
)

const defaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

const (
	// NotConfiguredMessage is returned when no provider API key is set.
	// Degraded mode, not an error.
	NotConfiguredMessage = "Model is not configured."
	// FailureMessage replaces the reply when the provider call fails.
	FailureMessage = "I couldn't generate a reply right now."
)

// boundaryChars are the characters after which buffered streaming text is
// safe to flush: the buffer ends at a sentence- or clause-like boundary.
const boundaryChars = " \n.,!?:;"

const (
	replyTemperature = 0.7
	replyMaxTokens   = 400
)

// GroqProvider implements Provider against Groq's OpenAI-compatible API
type GroqProvider struct {
	config *config.LLMConfig
	client *http.Client
	url    string
}

// NewGroqProvider creates a Groq-backed provider
func NewGroqProvider(llmConfig *config.LLMConfig) *GroqProvider {
	return &GroqProvider{
		config: llmConfig,
		client: &http.Client{},
		url:    defaultGroqURL,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
		Delta   Message `json:"delta"`
	} `json:"choices"`
}

// buildMessages appends the prompt as the final user turn, truncated to the
// configured maximum input length.
func (p *GroqProvider) buildMessages(prompt string, history []Message) []Message {
	if p.config.MaxInputLength > 0 && len(prompt) > p.config.MaxInputLength {
		prompt = prompt[:p.config.MaxInputLength]
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	return append(messages, Message{Role: "user", Content: prompt})
}

func (p *GroqProvider) newRequest(ctx context.Context, messages []Message, stream bool) (*http.Request, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: replyTemperature,
		MaxTokens:   replyMaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.GroqAPIKey)
	return req, nil
}

// Generate returns the complete reply for a prompt and history. Provider
// failures are logged and absorbed into placeholder text.
func (p *GroqProvider) Generate(ctx context.Context, prompt string, history []Message) string {
	if p.config.GroqAPIKey == "" {
		return NotConfiguredMessage
	}

	reply, err := p.complete(ctx, p.buildMessages(prompt, history))
	if err != nil {
		logger.Log.WithError(err).Error("Groq completion failed")
		return FailureMessage
	}
	return reply
}

func (p *GroqProvider) complete(ctx context.Context, messages []Message) (string, error) {
	req, err := p.newRequest(ctx, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Stream opens a streaming completion and emits reply chunks. Incoming
// fragments are buffered and only flushed once the buffer ends in a boundary
// character; whatever remains is flushed when the provider stream ends.
func (p *GroqProvider) Stream(ctx context.Context, prompt string, history []Message) <-chan string {
	chunks := make(chan string)

	go func() {
		defer close(chunks)

		if p.config.GroqAPIKey == "" {
			emit(ctx, chunks, NotConfiguredMessage)
			return
		}

		req, err := p.newRequest(ctx, p.buildMessages(prompt, history), true)
		if err != nil {
			logger.Log.WithError(err).Error("Groq stream request failed")
			emit(ctx, chunks, FailureMessage)
			return
		}

		resp, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.WithError(err).Error("Groq stream request failed")
			emit(ctx, chunks, FailureMessage)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			logger.Log.WithFields(logrus.Fields{
				"status_code": resp.StatusCode,
				"body":        string(body),
			}).Error("Groq stream returned non-OK status")
			emit(ctx, chunks, FailureMessage)
			return
		}

		var buffer strings.Builder
		scanner := bufio.NewScanner(resp.Body)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp chatResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				logger.Log.WithError(err).Debug("Skipping malformed stream chunk")
				continue
			}

			if len(streamResp.Choices) == 0 || streamResp.Choices[0].Delta.Content == "" {
				continue
			}

			buffer.WriteString(streamResp.Choices[0].Delta.Content)
			if text := buffer.String(); endsAtBoundary(text) {
				if !emit(ctx, chunks, text) {
					return
				}
				buffer.Reset()
			}
		}

		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.WithError(err).Error("Groq stream read failed")
			emit(ctx, chunks, FailureMessage)
			return
		}

		if buffer.Len() > 0 {
			emit(ctx, chunks, buffer.String())
		}
	}()

	return chunks
}

func endsAtBoundary(text string) bool {
	return strings.ContainsRune(boundaryChars, rune(text[len(text)-1]))
}

// emit sends a chunk unless the consumer has gone away
func emit(ctx context.Context, chunks chan<- string, text string) bool {
	select {
	case chunks <- text:
		return true
	case <-ctx.Done():
		return false
	}
}
