package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     domain.Intent
	}{
		{"bare record label", "context", domain.IntentRecord},
		{"bare question label", "query", domain.IntentQuestion},
		{"label with punctuation", "Context.", domain.IntentRecord},
		{"label surrounded by prose", "This looks like a query to me", domain.IntentQuestion},
		{"uppercase label", "QUERY", domain.IntentQuestion},
		{"both labels", "query or context, hard to say", domain.IntentUnknown},
		{"neither label", "I am not sure", domain.IntentUnknown},
		{"empty response", "", domain.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(generator.Func(func(ctx context.Context, prompt string) (string, error) {
				return tt.response, nil
			}))
			assert.Equal(t, tt.want, c.Classify(context.Background(), "some message"))
		})
	}
}

func TestClassifyGenerationFailure(t *testing.T) {
	c := NewClassifier(generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}))
	assert.Equal(t, domain.IntentGenerationFailure, c.Classify(context.Background(), "some message"))
}

func TestClassifyPromptEmbedsMessage(t *testing.T) {
	var seen string
	c := NewClassifier(generator.Func(func(ctx context.Context, prompt string) (string, error) {
		seen = prompt
		return "context", nil
	}))
	c.Classify(context.Background(), "i spent 500 on groceries")
	assert.Contains(t, seen, "i spent 500 on groceries")
}
