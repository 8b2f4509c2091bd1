package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/logger"
	"github.com/dvoronov/fintalk/internal/temporal"
)

// Extractor turns a record-intent message into a structured transaction by
// asking the generator for a JSON object and normalizing what comes back.
type Extractor struct {
	gen generator.Generator
}

// NewExtractor creates an extractor backed by the given generator.
func NewExtractor(gen generator.Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract parses the message into a transaction. now is the processing
// instant used for date/time substitution when the input names none.
//
// A nil, nil return is the empty result: the model's output had no usable
// structure, which the caller must surface as "could not understand", not
// as a system fault. A non-nil error only means the generator call itself
// failed. The returned transaction has UserID unset; the orchestrator
// attaches identity before persistence.
func (e *Extractor) Extract(ctx context.Context, text string, now time.Time) (*domain.Transaction, error) {
	log := logger.FromContext(ctx)

	resp, err := e.gen.Generate(ctx, extractPrompt(text))
	if err != nil {
		return nil, err
	}

	clean := extractObject(stripFences(resp))
	if clean == "" {
		log.Warn().Str("raw", resp).Msg("extraction output has no JSON object")
		return nil, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		log.Warn().Err(err).Str("raw", resp).Msg("extraction output is not valid JSON")
		return nil, nil
	}

	kind := domain.TransactionKind(strings.ToLower(stringField(obj, "type")))
	amount, ok := numberField(obj, "amount")
	if !ok {
		log.Warn().Str("json", clean).Msg("extraction output has no numeric amount")
		return nil, nil
	}

	tx := &domain.Transaction{
		Kind:     kind,
		Amount:   amount,
		Category: optionalField(obj, "category"),
		Target:   optionalField(obj, "target"),
		Source:   optionalField(obj, "source"),
	}
	if !tx.Valid() {
		log.Warn().Str("json", clean).Msg("extraction output violates transaction invariants")
		return nil, nil
	}

	// Date: substitute the processing date when absent or unrecognizable.
	tx.Date = dateOnly(now)
	if raw := stringField(obj, "date"); raw != "" {
		if d, ok := temporal.ParseDate(raw, now); ok {
			tx.Date = d
		} else {
			log.Warn().Str("date", raw).Msg("unparsable date, substituting processing date")
		}
	}

	// Time: substitute the processing time when absent; an unrecognizable
	// fragment stays null.
	if raw := stringField(obj, "time"); raw != "" {
		if hm, ok := temporal.ParseTime(raw); ok {
			tx.TimeOfDay = &hm
		} else {
			log.Warn().Str("time", raw).Msg("unparsable time, leaving null")
		}
	} else {
		hm := now.Format("15:04")
		tx.TimeOfDay = &hm
	}

	return tx, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// stringField returns the field as a trimmed string, or "" when absent,
// null or not a string.
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// optionalField returns a pointer to the trimmed string value, or nil for
// absent, null, empty or non-string values.
func optionalField(m map[string]interface{}, key string) *string {
	s := stringField(m, key)
	if s == "" {
		return nil
	}
	return &s
}

// numberField reads a numeric field. The model occasionally emits amounts
// as strings ("200"), so those are coerced too.
func numberField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
