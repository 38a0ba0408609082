// Command hoursreport runs the volunteer-hours pipeline once and exits:
// fetch the sheet, render both charts, upload them to the bucket.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"hoursreport/internal/config"
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

	if err := run(context.Background(), logger, os.Args); err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, args []string) error {
	cfg := config.Load()

	cmd := &cli.Command{
		Name:  "hoursreport",
		Usage: "Fetch volunteer hours, render the charts, upload them to the bucket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bucket",
				Usage:       "Destination bucket name",
				Value:       cfg.BucketName,
				Sources:     cli.EnvVars("BUCKET_NAME"),
				Destination: &cfg.BucketName,
			},
			&cli.StringFlag{
				Name:        "credentials",
				Usage:       "Service-account credentials file",
				Value:       cfg.CredentialsFile,
				Sources:     cli.EnvVars("GOOGLE_CREDENTIALS_FILE"),
				Destination: &cfg.CredentialsFile,
			},
			&cli.StringFlag{
				Name:        "spreadsheet",
				Usage:       "Source spreadsheet title",
				Value:       cfg.SpreadsheetName,
				Sources:     cli.EnvVars("SPREADSHEET_NAME"),
				Destination: &cfg.SpreadsheetName,
			},
			&cli.StringFlag{
				Name:        "spreadsheet-id",
				Usage:       "Source spreadsheet ID (skips the title lookup)",
				Value:       cfg.SpreadsheetID,
				Sources:     cli.EnvVars("SPREADSHEET_ID"),
				Destination: &cfg.SpreadsheetID,
			},
			&cli.StringFlag{
				Name:        "worksheet",
				Usage:       "Worksheet (tab) name",
				Value:       cfg.WorksheetName,
				Sources:     cli.EnvVars("WORKSHEET_NAME"),
				Destination: &cfg.WorksheetName,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "Record source backend: google or memory",
				Value:       cfg.Backend,
				Sources:     cli.EnvVars("DATA_BACKEND"),
				Destination: &cfg.Backend,
			},
			&cli.StringFlag{
				Name:        "seed",
				Usage:       "CSV seed file for the memory backend",
				Value:       cfg.SeedFile,
				Sources:     cli.EnvVars("SEED_FILE"),
				Destination: &cfg.SeedFile,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Bound on the fetch and each upload",
				Value:       cfg.RequestTimeout,
				Sources:     cli.EnvVars("REQUEST_TIMEOUT"),
				Destination: &cfg.RequestTimeout,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return execute(ctx, logger, cfg)
		},
	}

	return cmd.Run(ctx, args)
}

func execute(ctx context.Context, logger *log.Logger, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, snk, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(src, snk, logger, pipeline.WithTimeout(cfg.RequestTimeout))
	report, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if !report.Success() {
		for _, c := range report.Failed() {
			logger.Error("Chart failed", "object", c.Object, "error", c.Err)
		}
		return goerr.New("run finished with chart failures",
			goerr.V("uploaded", report.Uploaded()),
			goerr.V("failed", len(report.Failed())))
	}

	logger.Info("All charts uploaded",
		"bucket", cfg.BucketName,
		"rows", report.Fetched,
		"rejected", report.Rejected,
		"charts", report.Uploaded())
	return nil
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
