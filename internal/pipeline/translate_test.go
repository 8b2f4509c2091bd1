package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoronov/fintalk/internal/domain"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare sql passes through",
			response: "SELECT SUM(amount) FROM transactions WHERE type = 'expense'",
			want:     "SELECT SUM(amount) FROM transactions WHERE type = 'expense'",
		},
		{
			name:     "sql fence is stripped",
			response: "```sql\nSELECT SUM(amount) FROM transactions\n```",
			want:     "SELECT SUM(amount) FROM transactions",
		},
		{
			name:     "anonymous fence is stripped",
			response: "```\nDELETE FROM transactions WHERE type = 'expense'\n```",
			want:     "DELETE FROM transactions WHERE type = 'expense'",
		},
		{
			name:     "lead-in prose before the fence is dropped",
			response: "Here you go:\n```sql\nSELECT SUM(amount) FROM transactions\n```",
			want:     "SELECT SUM(amount) FROM transactions",
		},
		{
			name:     "surrounding whitespace is trimmed",
			response: "\n  SELECT * FROM transactions  \n",
			want:     "SELECT * FROM transactions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(respondWith(tt.response))
			got, err := tr.Translate(context.Background(), "how much did I spend?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateEmptyOutput(t *testing.T) {
	tr := NewTranslator(respondWith("```\n```"))
	_, err := tr.Translate(context.Background(), "how much did I spend?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParse))
}
