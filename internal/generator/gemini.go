package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvoronov/fintalk/internal/domain"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.0-flash"

// Gemini implements Generator on top of the GenAI SDK. The client reads its
// API key from the environment (GEMINI_API_KEY / GOOGLE_API_KEY).
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator. An empty model selects
// DefaultModelName.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("generator: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends the prompt as a single user turn and returns the raw
// response text verbatim.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generator: generate content: %v: %w", err, domain.ErrGeneration)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generator: empty response from model: %w", domain.ErrGeneration)
	}

	return text, nil
}
