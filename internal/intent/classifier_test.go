package intent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"flyai/internal/llm"
)

type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []llm.Completion
	reply   string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, c llm.Completion) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, c)
	return f.reply, f.err
}

type fakeAnswerer struct {
	calls   int
	prompts []string
	answer  string
	err     error
}

func (f *fakeAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

var testKeywords = []string{
	"flight", "flights", "fly", "to", "from", "trip",
	"flug", "flüge", "fliegen", "nach", "von", "reise",
}

func newTestClassifier(t *testing.T, completer *fakeCompleter, answerer *fakeAnswerer) *Classifier {
	t.Helper()
	return NewClassifier(completer, answerer, Config{Keywords: testKeywords}, zaptest.NewLogger(t))
}

func TestClassifyKeywordGateSkipsExtraction(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"search_flight","from":"A","to":"B"}`}
	answerer := &fakeAnswerer{answer: "It is sunny."}
	c := newTestClassifier(t, completer, answerer)

	res, err := c.Classify(context.Background(), "What's the weather?")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	chat, ok := res.(Chat)
	if !ok {
		t.Fatalf("expected Chat, got %T", res)
	}
	if chat.Message != "It is sunny." {
		t.Fatalf("unexpected message %q", chat.Message)
	}
	if completer.calls != 0 {
		t.Fatalf("extraction must not run without a keyword, got %d calls", completer.calls)
	}
}

func TestClassifyMalformedReplyFallsBackToChat(t *testing.T) {
	completer := &fakeCompleter{reply: "Sure! I'd love to help you find a flight to Rome."}
	answerer := &fakeAnswerer{answer: "Rome is great."}
	c := newTestClassifier(t, completer, answerer)

	res, err := c.Classify(context.Background(), "flight to Rome")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, ok := res.(Chat); !ok {
		t.Fatalf("expected Chat, got %T", res)
	}
	if len(answerer.prompts) != 1 || answerer.prompts[0] != "flight to Rome" {
		t.Fatalf("fallback must answer the original prompt, got %v", answerer.prompts)
	}
}

func TestClassifyExtractsFlightSearch(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"search_flight","from":"BER","to":"JFK","date":"2025-12-20"}`}
	answerer := &fakeAnswerer{}
	c := newTestClassifier(t, completer, answerer)

	res, err := c.Classify(context.Background(), "I want to fly from BER to JFK on 2025-12-20")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	fs, ok := res.(FlightSearch)
	if !ok {
		t.Fatalf("expected FlightSearch, got %T", res)
	}
	if fs.Origin != "BER" || fs.Destination != "JFK" {
		t.Fatalf("unexpected route %+v", fs)
	}
	if fs.Date == nil || *fs.Date != "2025-12-20" {
		t.Fatalf("unexpected date %v", fs.Date)
	}
	if fs.Message() != "Searching flights from BER to JFK..." {
		t.Fatalf("unexpected message %q", fs.Message())
	}
	if answerer.calls != 0 {
		t.Fatalf("flight search must not call the answerer")
	}

	sent := completer.prompts[0]
	if sent.System != "" || sent.MaxTokens != 200 || sent.Temperature != 0 {
		t.Fatalf("unexpected extraction settings %+v", sent)
	}
	if !strings.Contains(sent.Prompt, "I want to fly from BER to JFK on 2025-12-20") {
		t.Fatalf("extraction prompt must embed the user prompt")
	}
}

func TestClassifyNullDate(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"search_flight","from":"Berlin","to":"Paris","date":null}`}
	c := newTestClassifier(t, completer, &fakeAnswerer{})

	res, err := c.Classify(context.Background(), "flights from Berlin to Paris")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	fs, ok := res.(FlightSearch)
	if !ok {
		t.Fatalf("expected FlightSearch, got %T", res)
	}
	if fs.Date != nil {
		t.Fatalf("expected no date, got %q", *fs.Date)
	}
}

func TestClassifyChatActionAnswersOriginalPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: `{"action":"chat","message":"how long is a trip to mars"}`}
	answerer := &fakeAnswerer{answer: "Quite long."}
	c := newTestClassifier(t, completer, answerer)

	res, err := c.Classify(context.Background(), "How long is a trip to Mars?")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if chat, ok := res.(Chat); !ok || chat.Message != "Quite long." {
		t.Fatalf("unexpected result %#v", res)
	}
	if answerer.prompts[0] != "How long is a trip to Mars?" {
		t.Fatalf("answerer got %q", answerer.prompts[0])
	}
}

func TestClassifyExtractionErrorFallsBack(t *testing.T) {
	completer := &fakeCompleter{err: &llm.UpstreamError{Provider: "fake", Err: errors.New("timeout")}}
	answerer := &fakeAnswerer{answer: "fallback"}
	c := newTestClassifier(t, completer, answerer)

	res, err := c.Classify(context.Background(), "Flug nach Berlin")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, ok := res.(Chat); !ok {
		t.Fatalf("expected Chat, got %T", res)
	}
}

func TestClassifySurfacesAnswererUpstreamError(t *testing.T) {
	answerer := &fakeAnswerer{err: &llm.UpstreamError{Provider: "fake", Err: errors.New("down")}}
	c := newTestClassifier(t, &fakeCompleter{}, answerer)

	_, err := c.Classify(context.Background(), "hello there")
	if !errors.Is(err, llm.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestKeywordSetWholeWords(t *testing.T) {
	set := NewKeywordSet(testKeywords)

	tests := []struct {
		text string
		want bool
	}{
		{"I want to fly to Rome", true},
		{"FLIGHTS please", true},
		{"Ich möchte nach München fliegen", true},
		{"Flüge ab Hamburg", true},
		{"what's the weather tomorrow?", false},
		{"Tell me about Tokyo", false},
		{"", false},
		{"trip!", true},
	}
	for _, tt := range tests {
		if got := set.Match(tt.text); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
