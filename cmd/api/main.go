package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvoronov/fintalk/internal/api/handlers"
	"github.com/dvoronov/fintalk/internal/api/middleware"
	"github.com/dvoronov/fintalk/internal/config"
	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/logger"
	"github.com/dvoronov/fintalk/internal/pipeline"
	"github.com/dvoronov/fintalk/internal/storage"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	store, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	gen, err := generator.NewGemini(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generator")
	}

	assistant := pipeline.New(gen, store)

	chatHandler := handlers.NewChatHandler(assistant, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/health", handlers.Health)

	// Middleware chain: CORS -> RequestID -> Logger -> Recovery -> mux
	handler := middleware.CORS(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.Recovery(log)(mux),
			),
		),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
