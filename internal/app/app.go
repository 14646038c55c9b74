package app

import (
	"context"
	"log/slog"

	"github.com/carloscrcalderonr/finmaq-test/internal/config"
	"github.com/carloscrcalderonr/finmaq-test/internal/etl"
	"github.com/carloscrcalderonr/finmaq-test/internal/infrastructure/snapshot"
	"github.com/carloscrcalderonr/finmaq-test/internal/infrastructure/storage"
	"github.com/carloscrcalderonr/finmaq-test/internal/infrastructure/tmdb"
	"github.com/carloscrcalderonr/finmaq-test/internal/logging"
	"github.com/carloscrcalderonr/finmaq-test/internal/usecase"
)

// Application wires config to the ETL pipeline.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	api := tmdb.NewClient(cfg.API.BaseURL, cfg.API.Key, nil,
		baseLogger.With("component", "tmdb"))
	repo := storage.NewPostgresRepository(cfg.Database.DSN(),
		baseLogger.With("component", "storage"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Extractor:   etl.NewExtractor(api, baseLogger.With("component", "extractor")),
		Cleaner:     etl.NewCleanerValidator(nil, baseLogger.With("component", "cleaner")),
		Transformer: etl.NewTransformer(baseLogger.With("component", "transformer")),
		Loader:      etl.NewLoader(repo, baseLogger.With("component", "loader")),
		Snapshots:   snapshot.NewCSVWriter(cfg.Output.Dir),
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx)
}
