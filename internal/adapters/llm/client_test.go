package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/llm"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content ...string) map[string]any {
	choices := make([]map[string]any, 0, len(content))
	for i, c := range content {
		choices = append(choices, map[string]any{
			"index":         i,
			"message":       map[string]any{"role": "assistant", "content": c},
			"finish_reason": "stop",
		})
	}
	return map[string]any{"id": "chatcmpl-1", "object": "chat.completion", "model": "test-model", "choices": choices}
}

func newClient(t *testing.T, url string) *llm.Client {
	t.Helper()
	cl, err := llm.New(llm.Config{APIKey: "test-key", BaseURL: url, Model: "test-model", RPS: 100, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_Generate(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`"신안골분식"`))
	}))
	defer ts.Close()

	out, err := newClient(t, ts.URL).Generate(context.Background(), "문장: 신안골분식 가고싶어", 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != `"신안골분식"` {
		t.Fatalf("output = %q", out)
	}
	if got.Model != "test-model" || got.MaxTokens != 50 || len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestClient_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion())
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Generate(context.Background(), "hi", 10)
	if !errors.Is(err, domain.ErrEmptyCompletion) {
		t.Fatalf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestClient_ServerErrorIsNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Generate(context.Background(), "hi", 10)
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := newClient(t, ts.URL).Generate(ctx, "hi", 10); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := llm.New(llm.Config{Model: "m"}); err == nil {
		t.Fatalf("expected error without API key")
	}
}
