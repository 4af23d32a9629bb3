package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used by GeminiCompleter when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiCompleter calls the Gemini API directly.
type GeminiCompleter struct {
	cli   *genai.Client
	model string
}

// NewGeminiCompleter creates a Gemini client authenticated with apiKey.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiCompleter{cli: cli, model: model}, nil
}

// Complete sends prompt and requests an application/json reply.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
