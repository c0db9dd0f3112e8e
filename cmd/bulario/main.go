package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/cli"
	"github.com/gmfontes/bulario/internal/docstore"
	"github.com/gmfontes/bulario/internal/intelligence"
	"github.com/gmfontes/bulario/internal/llm"
	"github.com/gmfontes/bulario/internal/scheduler"
)

// defaultTimezone is the deployment's reference timezone for dose times.
const defaultTimezone = "America/Sao_Paulo"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	logLevel := slog.LevelWarn
	if os.Getenv("BULARIO_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	tzName := os.Getenv("BULARIO_TZ")
	if tzName == "" {
		tzName = defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", tzName, err)
	}

	// Model client.
	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	llmClient := llm.NewOllamaClient(llmCfg, observer)

	// Leaflet store.
	dbCfg := docstore.LoadConfig()
	pool, err := docstore.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to document store: %w", err)
	}
	defer pool.Close()
	store := docstore.New(docstore.NewQuerier(pool), llmClient, dbCfg.SearchTimeout(), logger)

	// Calendar backend.
	calCfg := calendar.LoadConfig()
	calClient := calendar.NewClient(calCfg, calCfg.NewTokenSource(), logger)

	app := &cli.App{
		Parser:     intelligence.NewPrescriptionParser(llmClient, logger),
		Classifier: intelligence.NewIntentClassifier(llmClient, logger),
		Answers:    intelligence.NewAnswerService(llmClient, store, logger),
		Scheduler:  scheduler.NewService(calClient, loc, logger),
		Docs:       store,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
