package pipeline

import (
	"context"
	"strings"

	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/storage"
)

// Synthesizer turns query results or a save outcome into the user-facing
// reply. The generated text is passed through verbatim; no parsing or
// retry logic lives here.
type Synthesizer struct {
	gen generator.Generator
}

// NewSynthesizer creates a synthesizer backed by the given generator.
func NewSynthesizer(gen generator.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize answers the original question from the executed result.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, result *storage.Result) (string, error) {
	resp, err := s.gen.Generate(ctx, answerPrompt(question, result.String()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// SynthesizeOutcome produces one short, varied sentence confirming or
// regretting a save attempt.
func (s *Synthesizer) SynthesizeOutcome(ctx context.Context, saved bool) (string, error) {
	resp, err := s.gen.Generate(ctx, outcomePrompt(saved))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}
