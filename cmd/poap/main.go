package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/poap/internal/cli"
	"github.com/alexanderramin/poap/internal/config"
	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/repository"
	"github.com/alexanderramin/poap/internal/service"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Every run is its own session: the store lives in memory and is gone
	// when the process exits.
	database, err := db.OpenDB(db.MemoryDSN)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer database.Close()

	sessionID := uuid.New().String()

	app := &cli.App{Config: cfg}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var logFile *os.File
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	// Wiring waits for flag parsing so the horizon reflects --start-year and
	// friends.
	app.Wire = func(cfg config.Config) error {
		h, err := cfg.Horizon()
		if err != nil {
			return err
		}

		var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
		if cfg.LogUseCases {
			var w io.Writer = os.Stderr
			if cfg.LogFile != "" {
				logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				w = logFile
			}
			observer = service.NewLogUseCaseObserver(w, sessionID)
		}

		allocRepo := repository.NewSQLiteAllocationRepo(database)
		noteRepo := repository.NewSQLiteDeliverableRepo(database)
		metaRepo := repository.NewSQLitePlanMetaRepo(database)
		uow := db.NewSQLiteUnitOfWork(database)

		app.Plan = service.NewPlanService(h, cfg.Resources, sessionID, metaRepo, allocRepo, noteRepo, uow, observer)
		app.Phases = service.NewPhaseService(h, allocRepo, noteRepo, uow, observer)
		app.Summary = service.NewSummaryService(h, allocRepo)
		app.Export = service.NewExportService(h, allocRepo, noteRepo, observer)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
