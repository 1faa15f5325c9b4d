package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codecrux/genai"
	"codecrux/infrastructure/httpapi"
	"codecrux/infrastructure/ws"
	"codecrux/internal"
	"codecrux/moderation"
	"codecrux/observability"
	"codecrux/repositories"
	"codecrux/runtime"
	"codecrux/runtime/workers"
	"codecrux/services"
	"codecrux/sink"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanups (database close,
// index close) always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := observability.GetLogger(config.LogLevel)
	if config.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, every turn will fail until configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	searchRepository := repositories.NewSearchRepository(blugeWriter, logger)
	transcripts := sink.NewTranscriptSink(messageRepository, searchRepository, logger)

	// 3. Relay core
	generator := genai.NewClient(config.GeminiAPIKey, config.ProviderTimeout)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(logger, registry, generator, genai.Options{}).
		WithTranscripts(transcripts)

	if words := config.CensoredWordList(); len(words) > 0 {
		charReplacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		moderator, err := moderation.NewModerator(words, charReplacement)
		if err != nil {
			return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
		}
		orchestrator.WithModerator(&moderator)
		logger.Info("Moderation enabled", "words", len(words))
	}

	chatService := services.NewChatService(orchestrator, registry, messageRepository, searchRepository)
	assistService := services.NewAssistService(generator)

	// 4. Background workers
	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(workers.NewTelemetryWorker(logger, config.MetricInterval))
	go supervisor.Run(ctx)
	defer supervisor.Stop()

	// 5. HTTP surface: REST + SSE + websocket relay
	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(ctx, chatService, logger, config.ConnectionBufferSize, config.DeliveryTimeout))
	mux.Handle("/", httpapi.NewServer(logger, assistService, chatService))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: mux,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitRuntime, err
		}
	case <-ctx.Done():
		logger.Info("Shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return exitRuntime, fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return exitOK, nil
}
