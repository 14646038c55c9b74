package etl

import (
	"context"
	"fmt"
	"testing"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
)

type fakeAPI struct {
	pages       map[int][]domain.MovieSummary
	details     map[int]domain.MovieDetail
	pageCalls   []int
	detailCalls []int
}

func (f *fakeAPI) PopularMovies(_ context.Context, page int) ([]domain.MovieSummary, error) {
	f.pageCalls = append(f.pageCalls, page)
	results, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("page %d unavailable", page)
	}
	return results, nil
}

func (f *fakeAPI) MovieDetail(_ context.Context, id int) (domain.MovieDetail, error) {
	f.detailCalls = append(f.detailCalls, id)
	d, ok := f.details[id]
	if !ok {
		return domain.MovieDetail{}, fmt.Errorf("detail %d unavailable", id)
	}
	return d, nil
}

func TestExtractSummariesToleratesFailedPages(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{pages: map[int][]domain.MovieSummary{
		1: {summary(1, "one", "2020-01-01", 100)},
		2: {summary(2, "two", "2020-01-01", 100), summary(3, "three", "2020-01-01", 100)},
		// pages 3..10 fail
	}}
	extractor := NewExtractor(api, testLogger())

	summaries, err := extractor.ExtractSummaries(context.Background())
	if err != nil {
		t.Fatalf("ExtractSummaries returned error: %v", err)
	}

	if len(api.pageCalls) != 10 {
		t.Fatalf("expected all 10 pages attempted, got %d", len(api.pageCalls))
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != 1 || summaries[1].ID != 2 || summaries[2].ID != 3 {
		t.Fatalf("page order not preserved: %v", summaries)
	}
}

func TestExtractDetailsSkipsFailedIDs(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{details: map[int]domain.MovieDetail{
		1: detail(1, int64Ptr(10), int64Ptr(20)),
		3: detail(3, int64Ptr(30), int64Ptr(40)),
	}}
	extractor := NewExtractor(api, testLogger())

	details, err := extractor.ExtractDetails(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("ExtractDetails returned error: %v", err)
	}

	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if details[0].ID != 1 || details[1].ID != 3 {
		t.Fatalf("input order not preserved: %v", details)
	}
	if len(api.detailCalls) != 3 {
		t.Fatalf("failed id must be attempted exactly once, calls: %v", api.detailCalls)
	}
}

func TestExtractStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extractor := NewExtractor(&fakeAPI{}, testLogger())
	if _, err := extractor.ExtractSummaries(ctx); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := extractor.ExtractDetails(ctx, []int{1}); err == nil {
		t.Fatalf("expected context error")
	}
}
