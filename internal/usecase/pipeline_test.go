package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/etl"
	"github.com/carloscrcalderonr/finmaq-test/internal/infrastructure/snapshot"
)

type scenarioAPI struct {
	pages   map[int][]domain.MovieSummary
	details map[int]domain.MovieDetail
}

func (s *scenarioAPI) PopularMovies(_ context.Context, page int) ([]domain.MovieSummary, error) {
	results, ok := s.pages[page]
	if !ok {
		return nil, fmt.Errorf("page %d unavailable", page)
	}
	return results, nil
}

func (s *scenarioAPI) MovieDetail(_ context.Context, id int) (domain.MovieDetail, error) {
	d, ok := s.details[id]
	if !ok {
		return domain.MovieDetail{}, fmt.Errorf("detail %d unavailable", id)
	}
	return d, nil
}

type capturingRepo struct {
	loaded []domain.TransformedMovie
}

func (c *capturingRepo) EnsureSchema(context.Context) error { return nil }

func (c *capturingRepo) UpsertBatch(_ context.Context, batch []domain.TransformedMovie) error {
	c.loaded = append(c.loaded, batch...)
	return nil
}

func (c *capturingRepo) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSummary(id int, title string, votes int) domain.MovieSummary {
	return domain.MovieSummary{
		ID:          id,
		Title:       title,
		ReleaseDate: "2020-01-01",
		VoteAverage: 7.0,
		VoteCount:   votes,
		Popularity:  10.0,
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	zero := int64(0)
	budget := int64(500)
	revenue := int64(1000)
	runtime := 120

	// Page 1 carries id 1 twice (dedup), ids 1 and 2 fail the vote
	// threshold, id 4 has no detail record; only id 3 reaches the store.
	api := &scenarioAPI{
		pages: map[int][]domain.MovieSummary{
			1: {
				testSummary(1, "first movie", 49),
				testSummary(1, "first movie", 49),
				testSummary(2, "second movie", 10),
				testSummary(3, "third movie", 75),
				testSummary(4, "fourth movie", 100),
			},
		},
		details: map[int]domain.MovieDetail{
			1: {ID: 1, Runtime: &runtime, Budget: &zero, Revenue: &zero},
			3: {ID: 3, Runtime: &runtime, Budget: &budget, Revenue: &revenue,
				Genres: []domain.Genre{{Name: "Drama"}}},
		},
	}

	repo := &capturingRepo{}
	dir := t.TempDir()
	logger := testLogger()

	pipeline := NewPipeline(PipelineDeps{
		Extractor:   etl.NewExtractor(api, logger),
		Cleaner:     etl.NewCleanerValidator(nil, logger),
		Transformer: etl.NewTransformer(logger),
		Loader:      etl.NewLoader(repo, logger),
		Snapshots:   snapshot.NewCSVWriter(dir),
		Logger:      logger,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(repo.loaded) != 1 {
		t.Fatalf("expected exactly 1 loaded row, got %d", len(repo.loaded))
	}
	got := repo.loaded[0]
	if got.MovieID != 3 {
		t.Fatalf("expected movie 3, got %d", got.MovieID)
	}
	if got.Title != "Third Movie" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.BudgetUSD != 500 || got.RevenueUSD != 1000 {
		t.Fatalf("unexpected budget/revenue: %d/%d", got.BudgetUSD, got.RevenueUSD)
	}
	if got.ProfitMargin == nil || !got.ProfitMargin.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected profit margin 1.0, got %v", got.ProfitMargin)
	}
	if got.RatingCategory != domain.CategoryBueno {
		t.Fatalf("rating 7.0 must be Bueno, got %s", got.RatingCategory)
	}

	for _, name := range []string{
		"movies_api.csv",
		"details_api.csv",
		"movies_transformed.csv",
		"discarded_duplicated_movies.csv",
		"discarded_low_votes.csv",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected snapshot %s: %v", name, err)
		}
	}

	// id 4 is excluded by the join alone; no audit file records it.
	lowVotes := readCSV(t, filepath.Join(dir, "discarded_low_votes.csv"))
	if len(lowVotes) != 3 { // header + ids 1 and 2
		t.Fatalf("expected 2 low-votes rows, got %d", len(lowVotes)-1)
	}
}

func TestPipelineRunsAgainstEmptyProvider(t *testing.T) {
	t.Parallel()

	api := &scenarioAPI{} // every page fails; tolerated
	repo := &capturingRepo{}
	logger := testLogger()

	pipeline := NewPipeline(PipelineDeps{
		Extractor:   etl.NewExtractor(api, logger),
		Cleaner:     etl.NewCleanerValidator(nil, logger),
		Transformer: etl.NewTransformer(logger),
		Loader:      etl.NewLoader(repo, logger),
		Snapshots:   snapshot.NewCSVWriter(t.TempDir()),
		Logger:      logger,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("an empty run must still succeed, got %v", err)
	}
	if len(repo.loaded) != 0 {
		t.Fatalf("expected nothing loaded, got %d rows", len(repo.loaded))
	}
}

func readCSV(t *testing.T, path string) []string {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
