package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/objectives/internal/cli"
	"github.com/alexanderramin/objectives/internal/config"
	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/repository"
	"github.com/alexanderramin/objectives/internal/service"
	"github.com/alexanderramin/objectives/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	var cleanups []func(context.Context) error
	defer func() {
		ctx := context.Background()
		for i := len(cleanups) - 1; i >= 0; i-- {
			err = errors.Join(err, cleanups[i](ctx))
		}
	}()

	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	app.Bootstrap = func(ctx context.Context, configPath string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		app.Config = cfg

		logger := cfg.Log.NewLogger(os.Stderr)
		slog.SetDefault(logger)
		app.Logger = logger

		shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry, os.Stderr)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, shutdownTracing)

		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		cleanups = append(cleanups, closeDB(database))

		objectiveRepo := repository.NewSQLiteObjectiveRepo(database)
		historyRepo := repository.NewSQLiteHistoryRepo(database)
		commentRepo := repository.NewSQLiteCommentRepo(database)
		uow := db.NewSQLiteUnitOfWork(database)

		observers := []service.UseCaseObserver{service.NewSlogUseCaseObserver(logger)}
		if cfg.Telemetry.Metrics {
			app.Metrics = telemetry.NewMetrics()
			observers = append(observers, app.Metrics)
		}

		app.Objectives = service.NewObjectiveService(objectiveRepo, historyRepo, uow, observers...)
		app.Comments = service.NewCommentService(objectiveRepo, commentRepo, uow, observers...)
		app.Imports = service.NewImportService(uow, observers...)
		logger.Debug("bootstrap complete", "db_path", cfg.DBPath, "trace_exporter", cfg.Telemetry.TraceExporter)
		return nil
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

func closeDB(database *sql.DB) func(context.Context) error {
	return func(context.Context) error {
		return database.Close()
	}
}
