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

	"github.com/smartgrade/backend/internal/api"
	"github.com/smartgrade/backend/internal/grader"
	"github.com/smartgrade/backend/internal/infrastructure/config"
	"github.com/smartgrade/backend/internal/jobs"
	"github.com/smartgrade/backend/internal/service"
	"github.com/smartgrade/backend/internal/store"

	_ "github.com/smartgrade/backend/docs" // generated swagger docs
)

// @title           SmartGrade API
// @version         1.0
// @description     AI-assisted homework grading — upload problem sets and student submissions, then grade them asynchronously with an LLM.

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

	var llm grader.AnswerGrader
	switch cfg.Grader {
	case "static":
		// Canned scores, for demos and local development without an API key.
		llm = grader.NewStatic()
	default:
		llm = grader.NewOpenAIGrader(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	}

	gradingSvc := service.NewGradingService(jobs.NewStore(), db, db, llm, logger, service.Options{
		AnswerWorkers:  cfg.AnswerWorkers,
		StudentWorkers: cfg.StudentWorkers,
		GradeTimeout:   cfg.GradeTimeout,
	})
	handler := api.NewHandler(db, gradingSvc, logger)

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

	logger.Info("starting server", "address", cfg.ServerAddress, "grader", cfg.Grader)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
