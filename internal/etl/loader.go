package etl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

// batchSize is rows per upsert round-trip; a tuning knob, not a contract.
const batchSize = 100

// Loader writes transformed rows to the repository in fixed-size batches.
type Loader struct {
	repo   ports.MovieRepository
	logger *slog.Logger
}

// NewLoader wires the repository adapter.
func NewLoader(repo ports.MovieRepository, logger *slog.Logger) *Loader {
	return &Loader{repo: repo, logger: logger}
}

// Load ensures the schema exists and upserts every row. The repository
// connection is released on every exit path; a close failure is logged but
// never masks an in-flight error.
func (l *Loader) Load(ctx context.Context, rows []domain.TransformedMovie) (err error) {
	defer func() {
		if closeErr := l.repo.Close(); closeErr != nil {
			l.logger.Error("close repository", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	if err = l.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err = l.repo.UpsertBatch(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("upsert rows %d-%d: %w", start, end-1, err)
		}
		l.logger.Debug("batch loaded", "from", start, "to", end-1)
	}

	l.logger.Info("load done", "rows", len(rows))
	return nil
}
