package ports

import (
	"context"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
)

// MovieAPI pulls catalog pages and per-id detail records from the provider.
// Both calls are single-attempt: any transport or status failure comes back
// as an error, and the caller decides whether the run continues without that
// page or id.
type MovieAPI interface {
	PopularMovies(ctx context.Context, page int) ([]domain.MovieSummary, error)
	MovieDetail(ctx context.Context, id int) (domain.MovieDetail, error)
}

// MovieRepository persists transformed movies keyed by their natural id.
type MovieRepository interface {
	EnsureSchema(ctx context.Context) error
	UpsertBatch(ctx context.Context, batch []domain.TransformedMovie) error
	Close() error
}

// SnapshotWriter dumps an intermediate dataset to a side file for inspection.
// Snapshots are observability only; a failed write must never abort a run.
type SnapshotWriter interface {
	Write(filename string, header []string, records [][]string) error
}
