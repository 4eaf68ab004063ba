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

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"j2systems/internal/config"
	"j2systems/internal/database"
	"j2systems/internal/server"
	"j2systems/internal/services"
	"j2systems/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if err := run(cfg, log); err != nil {
		log.Errorw("Server exited with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	log.Infow("Starting service", "name", cfg.App.Name, "version", cfg.App.Version)
	log.Infow("Environment", "debug", cfg.App.Debug, "host", cfg.App.Host, "port", cfg.App.Port, "email_enabled", cfg.Email.Enabled)

	// Initialize database
	log.Info("Initializing database connection...")
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		log.Info("Closing database connections...")
		if err := database.Close(db); err != nil {
			log.Warnw("Error closing database", "error", err)
		}
	}()

	// Create service instances
	log.Info("Initializing services...")
	emailSvc := services.NewEmailService(&cfg.Email, log)
	notifier := services.NewContactNotifier(emailSvc, cfg.Email.NotifyTo)
	contactSvc := services.NewContactService(store.NewContactStore(db), notifier, log)
	statusSvc := services.NewStatusService(store.NewStatusStore(db), log)
	healthSvc := services.NewHealthService(cfg.App.Name, func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	})

	handler := server.New(cfg, server.Services{
		Contacts: contactSvc,
		Status:   statusSvc,
		Health:   healthSvc,
	}, log)

	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar().Named("http")),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Infow("Starting graceful shutdown", "signal", sig.String())
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warnw("Error during graceful shutdown", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Shutdown timeout exceeded, forcing close...")
			_ = httpServer.Close()
		}
	}

	// Let in-flight notifications finish before the process exits
	contactSvc.Wait()

	log.Info("Server shutdown complete")
	return nil
}

// setupLogger builds the process logger: JSON in production, console when debugging
func setupLogger(debug bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if debug {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	return zapCfg.Build()
}
