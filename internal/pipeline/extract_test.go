package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
)

var processingInstant = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

func respondWith(response string) generator.Generator {
	return generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return response, nil
	})
}

func TestExtractExpense(t *testing.T) {
	e := NewExtractor(respondWith(`{"type": "expense", "amount": 500, "category": "groceries", "target": "weekly shop", "date": "yesterday", "time": null}`))

	tx, err := e.Extract(context.Background(), "i spent 500 on groceries yesterday", processingInstant)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, domain.KindExpense, tx.Kind)
	assert.Equal(t, 500.0, tx.Amount)
	require.NotNil(t, tx.Category)
	assert.Equal(t, "groceries", *tx.Category)
	assert.Nil(t, tx.Source)
	assert.Equal(t, time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC), tx.Date)
	require.NotNil(t, tx.TimeOfDay)
	assert.Equal(t, "14:30", *tx.TimeOfDay, "missing time substitutes the processing time")
	assert.Zero(t, tx.UserID, "identity is attached by the orchestrator, not here")
}

func TestExtractIncome(t *testing.T) {
	e := NewExtractor(respondWith(`{"type": "income", "amount": 200, "source": "mom", "date": null, "time": null}`))

	tx, err := e.Extract(context.Background(), "i got 200 from my mom", processingInstant)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, domain.KindIncome, tx.Kind)
	require.NotNil(t, tx.Source)
	assert.Equal(t, "mom", *tx.Source)
	assert.Nil(t, tx.Category)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), tx.Date,
		"missing date substitutes the processing date")
}

func TestExtractStripsCodeFences(t *testing.T) {
	e := NewExtractor(respondWith("```json\n{\"type\": \"expense\", \"amount\": 700, \"category\": \"fuel\", \"target\": \"petrol\", \"date\": \"12th June\", \"time\": \"5PM\"}\n```"))

	tx, err := e.Extract(context.Background(), "Expense: Fuel - 700 - 12th June 5PM", processingInstant)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, 700.0, tx.Amount)
	assert.Equal(t, time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), tx.Date)
	require.NotNil(t, tx.TimeOfDay)
	assert.Equal(t, "17:00", *tx.TimeOfDay)
}

func TestExtractAmountAsString(t *testing.T) {
	e := NewExtractor(respondWith(`{"type": "expense", "amount": "249", "category": "utilities", "target": "recharge", "date": null, "time": null}`))

	tx, err := e.Extract(context.Background(), "recharged my phone for 249", processingInstant)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, 249.0, tx.Amount)
}

func TestExtractUnparsableTimeStaysNull(t *testing.T) {
	e := NewExtractor(respondWith(`{"type": "expense", "amount": 50, "category": "food", "target": "snacks", "date": null, "time": "around dusk"}`))

	tx, err := e.Extract(context.Background(), "50 on snacks around dusk", processingInstant)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Nil(t, tx.TimeOfDay)
}

func TestExtractEmptyResult(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not JSON at all", "I couldn't find a transaction in that."},
		{"broken JSON", `{"type": "expense", "amount":`},
		{"missing amount", `{"type": "expense", "category": "food"}`},
		{"negative amount", `{"type": "expense", "amount": -10, "category": "food"}`},
		{"unknown kind", `{"type": "transfer", "amount": 10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(respondWith(tt.response))
			tx, err := e.Extract(context.Background(), "whatever", processingInstant)
			assert.NoError(t, err, "structural failure is an empty result, not a fault")
			assert.Nil(t, tx)
		})
	}
}

func TestExtractGenerationFailure(t *testing.T) {
	e := NewExtractor(generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("service unavailable")
	}))
	tx, err := e.Extract(context.Background(), "whatever", processingInstant)
	assert.Error(t, err)
	assert.Nil(t, tx)
}
