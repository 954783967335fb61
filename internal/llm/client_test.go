package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}
}

func TestChatCompletionSuccess(t *testing.T) {
	t.Parallel()

	var gotReq providerChatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}

		resp := providerChatResponse{
			ID:      "chatcmpl-1",
			Object:  "chat.completion",
			Created: time.Unix(1_700_000_000, 0).Unix(),
			Model:   "gpt-4",
			Choices: []providerChatChoice{
				{
					Index: 0,
					Message: ChatMessage{
						Role:    RoleAssistant,
						Content: "response",
					},
					FinishReason: "stop",
				},
			},
			Usage: &providerUsage{
				PromptTokens:     3,
				CompletionTokens: 2,
				TotalTokens:      5,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer closeClient(client)

	req := &ChatRequest{
		Model: "gpt-4",
		Messages: []ChatMessage{
			{Role: RoleUser, Content: "ping"},
		},
		Temperature: 0.3,
		MaxTokens:   50,
	}

	resp, err := client.ChatCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected Authorization header: %s", gotAuth)
	}
	if gotReq.Stream {
		t.Fatalf("request should not set stream=true")
	}
	if gotReq.Model != req.Model {
		t.Fatalf("expected model %s, got %s", req.Model, gotReq.Model)
	}
	if len(gotReq.Messages) != len(req.Messages) || gotReq.Messages[0].Content != "ping" {
		t.Fatalf("unexpected request messages: %#v", gotReq.Messages)
	}

	if resp == nil || len(resp.Choices) != 1 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Choices[0].Message.Content != "response" {
		t.Fatalf("unexpected response message: %#v", resp.Choices[0].Message)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 5 {
		t.Fatalf("usage not mapped correctly: %#v", resp.Usage)
	}
}

func TestChatCompletionValidationError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("server should not be called for invalid request")
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "key",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer closeClient(client)

	_, err = client.ChatCompletion(context.Background(), &ChatRequest{})
	if err == nil || !strings.Contains(err.Error(), "invalid request") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChatCompletionDefaultsModel(t *testing.T) {
	t.Parallel()

	var gotReq providerChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer closeClient(client)

	req := &ChatRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}}}
	if _, err := client.ChatCompletion(context.Background(), req); err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}

	if gotReq.Model != DefaultOpenAIModel {
		t.Fatalf("expected default model %s, got %s", DefaultOpenAIModel, gotReq.Model)
	}
	if req.Model != "" {
		t.Fatalf("caller request must not be mutated, got model %q", req.Model)
	}
}

func TestChatCompletionUpstreamError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer closeClient(client)

	_, err = client.ChatCompletion(context.Background(), &ChatRequest{
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T %v", err, err)
	}
	if ue.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", ue.StatusCode)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("errors.Is(err, ErrUpstream) should hold")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("provider message lost: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("default config must not retry, got %d calls", got)
	}
}

func TestChatCompletionRetriesWhenEnabled(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"second"}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIKey:      "key",
		MaxRetries:  1,
		BaseBackoff: time.Millisecond,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer closeClient(client)

	resp, err := client.ChatCompletion(context.Background(), &ChatRequest{
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if resp.Choices[0].Message.Content != "second" {
		t.Fatalf("unexpected content: %q", resp.Choices[0].Message.Content)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestChatCompleterBuildsMessages(t *testing.T) {
	t.Parallel()

	var gotReq providerChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"Berlin is nice."}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	completer := NewChatCompleter(client, "")
	defer completer.Close()

	out, err := completer.Complete(context.Background(), Completion{
		System:      "You are a travel assistant.",
		Prompt:      "Tell me about Berlin",
		MaxTokens:   500,
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Berlin is nice." {
		t.Fatalf("unexpected answer: %q", out)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %#v", gotReq.Messages)
	}
	if gotReq.Messages[0].Role != RoleSystem || gotReq.Messages[1].Role != RoleUser {
		t.Fatalf("unexpected roles: %#v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 500 {
		t.Fatalf("expected max_tokens 500, got %d", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", gotReq.Temperature)
	}
}

func TestChatCompleterWithoutPersona(t *testing.T) {
	t.Parallel()

	var gotReq providerChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"{}"}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	completer := NewChatCompleter(client, "")
	defer completer.Close()

	if _, err := completer.Complete(context.Background(), Completion{Prompt: "extract"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != RoleUser {
		t.Fatalf("expected a single user message, got %#v", gotReq.Messages)
	}
}

func TestChatCompleterEmptyContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"  "}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	completer := NewChatCompleter(client, "")
	defer completer.Close()

	_, err = completer.Complete(context.Background(), Completion{Prompt: "hi"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestInstrumentWrapsPlainErrors(t *testing.T) {
	t.Parallel()

	inner := CompleterFunc(func(ctx context.Context, c Completion) (string, error) {
		return "", errors.New("boom")
	})
	_, err := Instrument(inner, "fake", zaptest.NewLogger(t)).Complete(context.Background(), Completion{Prompt: "hi"})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if ue.Provider != "fake" {
		t.Fatalf("expected provider fake, got %q", ue.Provider)
	}
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := NewCompleter(context.Background(), ProviderConfig{Provider: "carrier-pigeon"}, zaptest.NewLogger(t))
	if err == nil || !strings.Contains(err.Error(), "unknown llm provider") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestNewCompleterOpenAIRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewCompleter(context.Background(), ProviderConfig{Provider: "openai"}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected missing key error")
	}
}

func closeClient(c Client) {
	if closer, ok := c.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
