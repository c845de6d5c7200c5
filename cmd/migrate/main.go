// Command migrate imports the legacy document-store ledger into Postgres.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"almanah/internal/legacyimport"
	"almanah/internal/platform/config"
	"almanah/internal/platform/logger"
	"almanah/internal/platform/postgres"
)

const connectTimeout = 15 * time.Second

func main() {
	reportPath := flag.String("report", "", "write the JSON import report to this file")
	flag.Parse()

	cfg, err := config.MigrateFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *reportPath); err != nil {
		log.Error("legacy import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Migrate, log *slog.Logger, reportPath string) error {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := postgres.Open(connectCtx, config.DatabaseConfig{URL: cfg.DatabaseURL, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	err = postgres.Migrate(connectCtx, db)
	_ = db.Close()
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open pgx pool: %w", err)
	}
	defer pool.Close()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", "error", err)
		}
	}()
	if err := client.Ping(connectCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}

	importer := legacyimport.New(
		legacyimport.NewMongoSource(client.Database(cfg.MongoDatabase)),
		legacyimport.NewPostgresSink(pool),
		legacyimport.WithLogger(log),
		legacyimport.WithBatchSize(cfg.BatchSize),
	)
	report, runErr := importer.Run(ctx)
	if report != nil {
		report.Log(log)
		if reportPath != "" {
			if err := writeReport(reportPath, report); err != nil {
				log.Warn("could not write report", "path", reportPath, "error", err)
			}
		}
	}
	return runErr
}

func writeReport(path string, report *legacyimport.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
