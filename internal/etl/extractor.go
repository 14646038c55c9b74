package etl

import (
	"context"
	"log/slog"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

// pageCount is the hardcoded catalog ceiling: 10 pages of ~20 items.
const pageCount = 10

// Extractor harvests catalog summaries and per-id details from the provider.
// Fetches are sequential and order-preserving; a failed page or id is logged
// and contributes nothing, it never stops the run.
type Extractor struct {
	api    ports.MovieAPI
	logger *slog.Logger
}

// NewExtractor wires the provider adapter.
func NewExtractor(api ports.MovieAPI, logger *slog.Logger) *Extractor {
	return &Extractor{api: api, logger: logger}
}

// ExtractSummaries walks pages 1 through pageCount and accumulates every
// catalog item. The only hard failure is context cancellation.
func (e *Extractor) ExtractSummaries(ctx context.Context) ([]domain.MovieSummary, error) {
	summaries := make([]domain.MovieSummary, 0, pageCount*20)

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := e.api.PopularMovies(ctx, page)
		if err != nil {
			e.logger.Warn("page skipped", "page", page, "error", err)
			continue
		}

		e.logger.Info("page extracted", "page", page, "movies", len(results))
		summaries = append(summaries, results...)
	}

	e.logger.Info("summary extraction done", "total", len(summaries))
	return summaries, nil
}

// ExtractDetails fetches one detail record per id, in the given order.
// Failed ids are skipped, not retried.
func (e *Extractor) ExtractDetails(ctx context.Context, ids []int) ([]domain.MovieDetail, error) {
	details := make([]domain.MovieDetail, 0, len(ids))

	for idx, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		detail, err := e.api.MovieDetail(ctx, id)
		if err != nil {
			e.logger.Warn("detail skipped", "movie_id", id, "error", err)
			continue
		}

		e.logger.Debug("detail extracted", "movie_id", id, "progress", idx+1, "of", len(ids))
		details = append(details, detail)
	}

	e.logger.Info("detail extraction done", "total", len(details))
	return details, nil
}
