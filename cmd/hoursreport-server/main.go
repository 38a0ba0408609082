// Command hoursreport-server exposes the pipeline over HTTP: any request
// to /run performs one fetch-render-upload pass, /dashboard serves the
// interactive charts.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hoursreport/internal/config"
	"hoursreport/internal/httpserver"
	"hoursreport/internal/log"
	"hoursreport/internal/pipeline"
	"hoursreport/internal/sink"
	"hoursreport/internal/sink/gcs"
	sinkmem "hoursreport/internal/sink/memory"
	"hoursreport/internal/source"
	sheetsrc "hoursreport/internal/source/google"
	srcmem "hoursreport/internal/source/memory"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(slog.LevelInfo)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, snk, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backends", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}

	p := pipeline.New(src, snk, logger, pipeline.WithTimeout(cfg.RequestTimeout))
	handler := httpserver.NewHandler(p, logger)
	srv := httpserver.NewServer(":"+cfg.Port, handler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting hoursreport server",
		"port", cfg.Port,
		"backend", cfg.Backend,
		"bucket", cfg.BucketName)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func buildBackends(ctx context.Context, cfg *config.Config, logger *log.Logger) (source.Source, sink.Sink, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Info("Using memory backend", "seed", cfg.SeedFile)
		snk := sinkmem.New()
		if cfg.SeedFile == "" {
			return srcmem.New(), snk, nil
		}
		src, err := srcmem.NewFromCSV(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return src, snk, nil
	default:
		src, err := sheetsrc.New(ctx, sheetsrc.Options{
			SpreadsheetID:   cfg.SpreadsheetID,
			SpreadsheetName: cfg.SpreadsheetName,
			Worksheet:       cfg.WorksheetName,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		snk, err := gcs.New(ctx, cfg.BucketName, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return src, snk, nil
	}
}
