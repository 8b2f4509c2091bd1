package pipeline

import (
	"context"
	"strings"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/logger"
)

// Classifier labels a raw message as a record ("context") or a question
// ("query") by asking the generator and substring-matching its response.
type Classifier struct {
	gen generator.Generator
}

// NewClassifier creates a classifier backed by the given generator.
func NewClassifier(gen generator.Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify routes the message. The response is lower-cased and matched
// tolerantly: extra words or punctuation around the label are fine. Both
// labels or neither yields IntentUnknown; a failed generator call yields
// IntentGenerationFailure. No retries here; that is surrounding-service
// policy.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Intent {
	log := logger.FromContext(ctx)

	resp, err := c.gen.Generate(ctx, classifyPrompt(text))
	if err != nil {
		log.Error().Err(err).Msg("intent classification call failed")
		return domain.IntentGenerationFailure
	}

	label := strings.ToLower(resp)
	hasRecord := strings.Contains(label, "context")
	hasQuestion := strings.Contains(label, "query")

	switch {
	case hasRecord && !hasQuestion:
		return domain.IntentRecord
	case hasQuestion && !hasRecord:
		return domain.IntentQuestion
	default:
		log.Warn().Str("label", strings.TrimSpace(resp)).Msg("unrecognized classification label")
		return domain.IntentUnknown
	}
}
