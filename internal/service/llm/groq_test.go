package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-api/internal/config"
)

func testProvider(url string) *GroqProvider {
	provider := NewGroqProvider(&config.LLMConfig{
		GroqAPIKey:         "test-key",
		Model:              "llama-3.1-8b-instant",
		MaxInputLength:     2000,
		MaxHistoryMessages: 10,
	})
	provider.url = url
	return provider
}

func completionServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got '%s'", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected a non-streaming request")
		}

		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply)
	}))
}

func streamServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if !req.Stream {
			t.Error("Expected a streaming request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range deltas {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func collect(chunks <-chan string) []string {
	var out []string
	for chunk := range chunks {
		out = append(out, chunk)
	}
	return out
}

func TestGenerate_ReturnsReply(t *testing.T) {
	server := completionServer(t, "Hi there!")
	defer server.Close()

	reply := testProvider(server.URL).Generate(context.Background(), "hello", nil)
	if reply != "Hi there!" {
		t.Errorf("Expected 'Hi there!', got '%s'", reply)
	}
}

func TestGenerate_NoKeyReturnsPlaceholder(t *testing.T) {
	provider := NewGroqProvider(&config.LLMConfig{MaxInputLength: 2000})

	reply := provider.Generate(context.Background(), "hello", nil)
	if reply != NotConfiguredMessage {
		t.Errorf("Expected the not-configured placeholder, got '%s'", reply)
	}
}

func TestGenerate_UpstreamErrorAbsorbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	reply := testProvider(server.URL).Generate(context.Background(), "hello", nil)
	if reply != FailureMessage {
		t.Errorf("Expected the failure placeholder, got '%s'", reply)
	}
}

func TestGenerate_TruncatesLongPrompt(t *testing.T) {
	var promptSeen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		promptSeen = req.Messages[len(req.Messages)-1].Content
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	testProvider(server.URL).Generate(context.Background(), strings.Repeat("x", 5000), nil)
	if len(promptSeen) != 2000 {
		t.Errorf("Expected prompt truncated to 2000 characters, got %d", len(promptSeen))
	}
}

func TestStream_FlushesAtBoundaries(t *testing.T) {
	server := streamServer(t, []string{"Hi", ". ", "Bye"})
	defer server.Close()

	chunks := collect(testProvider(server.URL).Stream(context.Background(), "hello", nil))

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 flushed chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "Hi. " {
		t.Errorf("Expected first flush at the boundary, got '%s'", chunks[0])
	}
	if chunks[1] != "Bye" {
		t.Errorf("Expected terminal flush of the remainder, got '%s'", chunks[1])
	}
}

// Buffering must not drop or duplicate characters: the concatenation of all
// chunks equals the full reply.
func TestStream_ConcatenationMatchesReply(t *testing.T) {
	deltas := []string{"The", " quick", " brown", " fox.", " It", " jumps!", " Done"}
	server := streamServer(t, deltas)
	defer server.Close()

	chunks := collect(testProvider(server.URL).Stream(context.Background(), "hello", nil))

	want := strings.Join(deltas, "")
	if got := strings.Join(chunks, ""); got != want {
		t.Errorf("Expected concatenation '%s', got '%s'", want, got)
	}
}

func TestStream_NoKeyEmitsPlaceholderOnce(t *testing.T) {
	provider := NewGroqProvider(&config.LLMConfig{MaxInputLength: 2000})

	chunks := collect(provider.Stream(context.Background(), "hello", nil))
	if len(chunks) != 1 || chunks[0] != NotConfiguredMessage {
		t.Errorf("Expected a single not-configured chunk, got %v", chunks)
	}
}

func TestStream_UpstreamErrorEmitsFailureOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	chunks := collect(testProvider(server.URL).Stream(context.Background(), "hello", nil))
	if len(chunks) != 1 || chunks[0] != FailureMessage {
		t.Errorf("Expected a single failure chunk, got %v", chunks)
	}
}

func TestStream_SkipsMalformedChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok \"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	chunks := collect(testProvider(server.URL).Stream(context.Background(), "hello", nil))
	if len(chunks) != 1 || chunks[0] != "ok " {
		t.Errorf("Expected the valid chunk only, got %v", chunks)
	}
}

func TestStream_EmptyCompletionYieldsNoChunks(t *testing.T) {
	server := streamServer(t, nil)
	defer server.Close()

	chunks := collect(testProvider(server.URL).Stream(context.Background(), "hello", nil))
	if len(chunks) != 0 {
		t.Errorf("Expected no chunks for an empty completion, got %v", chunks)
	}
}
