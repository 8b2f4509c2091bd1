package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvoronov/fintalk/internal/api/middleware"
	"github.com/dvoronov/fintalk/internal/logger"
)

// MessageHandler is the pipeline surface this layer invokes. Identity
// arrives here from the fronting auth proxy; the core never derives it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID int64, text string) (string, error)
}

// ChatHandler handles the conversational endpoint.
type ChatHandler struct {
	assistant MessageHandler
	timeout   time.Duration
	log       zerolog.Logger
}

// NewChatHandler creates a new chat handler. timeout bounds one pipeline
// run end to end, generator calls included.
func NewChatHandler(assistant MessageHandler, timeout time.Duration, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		timeout:   timeout,
		log:       log,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || userID <= 0 {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid user identity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reqLog := h.log.With().
		Str("request_id", middleware.GetRequestID(ctx)).
		Int64("user_id", userID).
		Logger()
	ctx = logger.WithContext(ctx, reqLog)

	reply, err := h.assistant.HandleMessage(ctx, userID, req.Message)
	if err != nil {
		// The reply is already the generic apology; internals stay in the
		// logs.
		reqLog.Error().Err(err).Msg("pipeline run failed")
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
