package main

import (
	"context"
	"os"

	"github.com/carloscrcalderonr/finmaq-test/internal/app"
	"github.com/carloscrcalderonr/finmaq-test/internal/config"
	"github.com/carloscrcalderonr/finmaq-test/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.NewWithWriter(cfg.Logging.Level, logging.RunWriter(cfg.Output.Dir))

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("pipeline aborted", "error", err)
		os.Exit(1)
	}
}
