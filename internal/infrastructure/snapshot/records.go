package snapshot

import (
	"strconv"
	"strings"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
)

const dateLayout = "2006-01-02"

// SummaryRecords renders raw catalog rows for the movies_api snapshot and the
// summary-side audit channels.
func SummaryRecords(rows []domain.MovieSummary) ([]string, [][]string) {
	header := []string{"id", "title", "release_date", "vote_average", "vote_count", "popularity"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.ID),
			row.Title,
			row.ReleaseDate,
			formatFloat(row.VoteAverage),
			strconv.Itoa(row.VoteCount),
			formatFloat(row.Popularity),
		})
	}
	return header, records
}

// DetailRecords renders raw detail rows for the details_api snapshot and the
// detail-side audit channels.
func DetailRecords(rows []domain.MovieDetail) ([]string, [][]string) {
	header := []string{"id", "genres", "runtime", "budget", "revenue"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		names := make([]string, 0, len(row.Genres))
		for _, genre := range row.Genres {
			names = append(names, genre.Name)
		}
		records = append(records, []string{
			strconv.Itoa(row.ID),
			strings.Join(names, ", "),
			formatIntPtr(row.Runtime),
			formatInt64Ptr(row.Budget),
			formatInt64Ptr(row.Revenue),
		})
	}
	return header, records
}

// TransformedRecords renders the final persisted shape for the
// movies_transformed and zero budget/revenue snapshots.
func TransformedRecords(rows []domain.TransformedMovie) ([]string, [][]string) {
	header := []string{
		"movie_id", "title", "release_date", "rating", "vote_count",
		"popularity_score", "genres", "duration_minutes", "budget_usd",
		"revenue_usd", "profit_margin", "rating_category",
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		margin := ""
		if row.ProfitMargin != nil {
			margin = row.ProfitMargin.String()
		}
		records = append(records, []string{
			strconv.Itoa(row.MovieID),
			row.Title,
			row.ReleaseDate.Format(dateLayout),
			formatFloat(row.Rating),
			strconv.Itoa(row.VoteCount),
			formatFloat(row.PopularityScore),
			row.Genres,
			strconv.Itoa(row.DurationMinutes),
			strconv.FormatInt(row.BudgetUSD, 10),
			strconv.FormatInt(row.RevenueUSD, 10),
			margin,
			string(row.RatingCategory),
		})
	}
	return header, records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatInt64Ptr(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
