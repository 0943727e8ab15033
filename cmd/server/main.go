package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mohitmdms-dev/ai-interviewer/internal/api"
	"github.com/mohitmdms-dev/ai-interviewer/internal/infrastructure/config"
	"github.com/mohitmdms-dev/ai-interviewer/internal/llm"
	"github.com/mohitmdms-dev/ai-interviewer/internal/service"
	"github.com/mohitmdms-dev/ai-interviewer/internal/store"

	_ "github.com/mohitmdms-dev/ai-interviewer/docs" // generated swagger docs
)

// @title           AI Interviewer API
// @version         1.0
// @description     Timed mock-interview sessions: resume-grounded questions, a per-question countdown, AI grading, and a final report.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	groq := llm.NewGroqClient(cfg.LLMURL, cfg.LLMModel, cfg.LLMAPIKey)
	interviews := service.NewInterviewService(db, groq, logger, service.Options{
		LLMTimeout: cfg.LLMTimeout,
		SessionTTL: cfg.SessionTTL,
	})
	defer interviews.Close()

	handler := api.NewHandler(interviews, db, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
