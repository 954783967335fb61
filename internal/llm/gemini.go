package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	providerGemini     = "gemini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiCompleter implements Completer with Google's Gemini SDK.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini client. apiKey comes from the environment.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, in Completion) (string, error) {
	// GenerativeModel is a cheap handle; a fresh one per call keeps the
	// per-call settings from leaking between concurrent requests.
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(in.Temperature))
	if in.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(in.MaxTokens))
	}
	if in.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(in.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(in.Prompt))
	if err != nil {
		return "", &UpstreamError{Provider: providerGemini, Err: fmt.Errorf("generate content: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &UpstreamError{Provider: providerGemini, Err: errors.New("no response candidates")}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", &UpstreamError{Provider: providerGemini, Err: errors.New("empty text parts")}
	}
	return text.String(), nil
}

func (g *GeminiCompleter) Close() error {
	return g.client.Close()
}
