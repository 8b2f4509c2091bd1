package pipeline

import (
	"context"
	"fmt"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
)

// Translator converts a question-intent message into a SQL query string.
// The output is unscoped and untrusted; it must go through sqlscope before
// execution.
type Translator struct {
	gen generator.Generator
}

// NewTranslator creates a translator backed by the given generator.
func NewTranslator(gen generator.Generator) *Translator {
	return &Translator{gen: gen}
}

// Translate asks the generator for bare SQL and strips any fence markers it
// added anyway. Semantic validation is not attempted here; the scoper and
// the database are the gatekeepers.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	resp, err := t.gen.Generate(ctx, translatePrompt(text))
	if err != nil {
		return "", err
	}

	sql := stripFences(resp)
	if sql == "" {
		return "", fmt.Errorf("pipeline: translator returned empty query: %w", domain.ErrParse)
	}

	return sql, nil
}
