package analyzer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Model is the language-understanding service boundary. Implementations take
// the system instructions plus the grounded user prompt and return the raw
// model text, which the analyzer expects to be a single JSON object.
type Model interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Gemini is the genai-backed Model implementation.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for the given model name. Credentials are
// picked up from the environment (GEMINI_API_KEY or application default
// credentials).
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateJSON sends the prompt and returns the raw response text.
func (g *Gemini) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return raw, nil
}
