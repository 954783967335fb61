package answer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"flyai/internal/cache"
	"flyai/internal/llm"
)

type fakeCompleter struct {
	mu     sync.Mutex
	calls  int
	last   llm.Completion
	answer string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, c llm.Completion) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = c
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type brokenStore struct {
	inserts int
}

func (b *brokenStore) Lookup(context.Context, string) (cache.Entry, bool, error) {
	return cache.Entry{}, false, errors.New("connection refused")
}

func (b *brokenStore) Insert(context.Context, string, string) (cache.Entry, error) {
	b.inserts++
	return cache.Entry{}, errors.New("connection refused")
}

func newTestService(t *testing.T, store cache.Store, completer llm.Completer) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Persona = "travel persona"
	return NewService(store, completer, cfg, zaptest.NewLogger(t))
}

func TestAnswerCachesRepeatedQuestion(t *testing.T) {
	completer := &fakeCompleter{answer: "Paris is lovely in spring."}
	svc := newTestService(t, cache.NewMemoryStore(), completer)
	ctx := context.Background()

	first, err := svc.Answer(ctx, "When should I visit Paris?")
	if err != nil {
		t.Fatalf("first Answer: %v", err)
	}
	second, err := svc.Answer(ctx, "When should I visit Paris?")
	if err != nil {
		t.Fatalf("second Answer: %v", err)
	}

	if first != second {
		t.Fatalf("answers differ: %q vs %q", first, second)
	}
	if completer.Calls() != 1 {
		t.Fatalf("expected 1 provider call, got %d", completer.Calls())
	}
}

func TestAnswerNormalizesQuestion(t *testing.T) {
	completer := &fakeCompleter{answer: "Try Air France."}
	svc := newTestService(t, cache.NewMemoryStore(), completer)
	ctx := context.Background()

	if _, err := svc.Answer(ctx, " Flights to Paris? "); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	got, err := svc.Answer(ctx, "flights to paris?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if got != "Try Air France." {
		t.Fatalf("unexpected answer %q", got)
	}
	if completer.Calls() != 1 {
		t.Fatalf("normalized questions should share a cache entry, got %d calls", completer.Calls())
	}
}

func TestAnswerSendsPersonaAndDefaults(t *testing.T) {
	completer := &fakeCompleter{answer: "ok"}
	svc := newTestService(t, cache.NewMemoryStore(), completer)

	if _, err := svc.Answer(context.Background(), "  Raw Prompt  "); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	got := completer.last
	if got.System != "travel persona" {
		t.Errorf("system = %q", got.System)
	}
	if got.Prompt != "  Raw Prompt  " {
		t.Errorf("the raw prompt should reach the model, got %q", got.Prompt)
	}
	if got.MaxTokens != 500 || got.Temperature != 0.7 {
		t.Errorf("unexpected sampling: %+v", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantMax  int
		wantTemp float64
	}{
		{"zero value keeps literal temperature", Config{}, 500, 0},
		{"negative temperature selects default", Config{Temperature: -1}, 500, 0.7},
		{"explicit values", Config{MaxTokens: 64, Temperature: 0.2}, 64, 0.2},
		{"DefaultConfig", DefaultConfig(), 500, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{answer: "ok"}
			svc := NewService(cache.NewMemoryStore(), completer, tt.cfg, zaptest.NewLogger(t))
			if _, err := svc.Answer(context.Background(), "hello"); err != nil {
				t.Fatalf("Answer: %v", err)
			}
			if completer.last.MaxTokens != tt.wantMax || completer.last.Temperature != tt.wantTemp {
				t.Fatalf("got max_tokens=%d temperature=%v, want %d %v",
					completer.last.MaxTokens, completer.last.Temperature, tt.wantMax, tt.wantTemp)
			}
		})
	}
}

func TestAnswerPropagatesUpstreamError(t *testing.T) {
	store := cache.NewMemoryStore()
	completer := &fakeCompleter{err: &llm.UpstreamError{Provider: "fake", StatusCode: 429, Err: errors.New("quota")}}
	svc := newTestService(t, store, completer)

	_, err := svc.Answer(context.Background(), "anything")
	if !errors.Is(err, llm.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	var ue *llm.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != 429 {
		t.Fatalf("upstream details lost: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed answers must not be cached")
	}
	if completer.Calls() != 1 {
		t.Fatalf("no retry expected, got %d calls", completer.Calls())
	}
}

func TestAnswerSurvivesBrokenCache(t *testing.T) {
	store := &brokenStore{}
	completer := &fakeCompleter{answer: "still here"}
	svc := newTestService(t, store, completer)

	got, err := svc.Answer(context.Background(), "question")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "still here" {
		t.Fatalf("unexpected answer %q", got)
	}
	if store.inserts != 1 {
		t.Fatalf("expected an insert attempt, got %d", store.inserts)
	}
}

func TestAnswerCachesAfterCancellation(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	completer := llm.CompleterFunc(func(c context.Context, _ llm.Completion) (string, error) {
		cancel()
		if c.Err() != nil {
			return "", c.Err()
		}
		return "done", nil
	})
	svc := newTestService(t, store, completer)

	if _, err := svc.Answer(ctx, "slow question"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, hit, _ := store.Lookup(context.Background(), "slow question"); !hit {
		t.Fatalf("answer should be cached after the caller cancelled")
	}
}

func TestAnswerRejectsEmptyPrompt(t *testing.T) {
	completer := &fakeCompleter{answer: "x"}
	svc := newTestService(t, cache.NewMemoryStore(), completer)

	if _, err := svc.Answer(context.Background(), "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if completer.Calls() != 0 {
		t.Fatalf("empty prompt must not reach the model")
	}
}

func TestAnswerConcurrentMisses(t *testing.T) {
	completer := &fakeCompleter{answer: "same"}
	svc := newTestService(t, cache.NewMemoryStore(), completer)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Answer(context.Background(), "race")
			if err != nil || got != "same" {
				t.Errorf("Answer = %q, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := completer.Calls(); n < 1 || n > 10 {
		t.Fatalf("unexpected provider calls %d", n)
	}
}
