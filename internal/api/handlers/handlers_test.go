package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoronov/fintalk/internal/logger"
	"github.com/dvoronov/fintalk/internal/pipeline"
)

type mockAssistant struct {
	reply  string
	err    error
	userID int64
	text   string
}

func (m *mockAssistant) HandleMessage(ctx context.Context, userID int64, text string) (string, error) {
	m.userID = userID
	m.text = text
	return m.reply, m.err
}

func newRequest(body, userID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	if userID != "" {
		r.Header.Set("X-User-ID", userID)
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestChat(t *testing.T) {
	assistant := &mockAssistant{reply: "You spent ₹500 today."}
	h := NewChatHandler(assistant, time.Minute, logger.NewWithWriter(&strings.Builder{}))

	w := httptest.NewRecorder()
	h.Chat(w, newRequest(`{"message": "how much did I spend today?"}`, "7"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You spent ₹500 today.", decodeBody(t, w)["response"])
	assert.Equal(t, int64(7), assistant.userID)
	assert.Equal(t, "how much did I spend today?", assistant.text)
}

func TestChatMissingIdentity(t *testing.T) {
	h := NewChatHandler(&mockAssistant{}, time.Minute, logger.NewWithWriter(&strings.Builder{}))

	w := httptest.NewRecorder()
	h.Chat(w, newRequest(`{"message": "hello"}`, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatInvalidBody(t *testing.T) {
	h := NewChatHandler(&mockAssistant{}, time.Minute, logger.NewWithWriter(&strings.Builder{}))

	w := httptest.NewRecorder()
	h.Chat(w, newRequest(`not json`, "7"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEmptyMessage(t *testing.T) {
	h := NewChatHandler(&mockAssistant{}, time.Minute, logger.NewWithWriter(&strings.Builder{}))

	w := httptest.NewRecorder()
	h.Chat(w, newRequest(`{"message": ""}`, "7"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Pipeline failures still answer 200 with the apology reply; internals
// never reach the client.
func TestChatPipelineFailure(t *testing.T) {
	assistant := &mockAssistant{reply: pipeline.ReplyApology, err: errors.New("generator quota exceeded")}
	h := NewChatHandler(assistant, time.Minute, logger.NewWithWriter(&strings.Builder{}))

	w := httptest.NewRecorder()
	h.Chat(w, newRequest(`{"message": "delete everything"}`, "3"))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, pipeline.ReplyApology, body["response"])
	assert.NotContains(t, body["response"], "quota")
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
