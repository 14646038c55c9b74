package etl

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
)

// Rating bucket upper edges; each edge is inclusive for its own bucket.
const (
	maloEdge     = 0.4
	promedioEdge = 6.0
	buenoEdge    = 8.0
)

// Transformer derives the persistence-facing fields from cleaned rows. Pure:
// no I/O, no mutation of the input.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer returns a transformer logging through the given logger.
func NewTransformer(logger *slog.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Transform renames fields, computes the profit margin and buckets the
// rating for every row, preserving order.
func (t *Transformer) Transform(rows []domain.CleanedMovie) []domain.TransformedMovie {
	transformed := make([]domain.TransformedMovie, 0, len(rows))
	for _, row := range rows {
		transformed = append(transformed, domain.TransformedMovie{
			MovieID:         row.ID,
			Title:           row.Title,
			ReleaseDate:     row.ReleaseDate,
			Rating:          row.VoteAverage,
			VoteCount:       row.VoteCount,
			PopularityScore: row.Popularity,
			Genres:          row.Genres,
			DurationMinutes: row.Runtime,
			BudgetUSD:       row.Budget,
			RevenueUSD:      row.Revenue,
			ProfitMargin:    profitMargin(row.Budget, row.Revenue),
			RatingCategory:  categorizeRating(row.VoteAverage),
		})
	}

	t.logger.Info("transform done", "in", len(rows), "out", len(transformed))
	return transformed
}

// profitMargin is (revenue-budget)/budget in exact decimal arithmetic, or nil
// when there is no budget to divide by.
func profitMargin(budget, revenue int64) *decimal.Decimal {
	if budget == 0 {
		return nil
	}
	margin := decimal.NewFromInt(revenue - budget).Div(decimal.NewFromInt(budget))
	return &margin
}

func categorizeRating(rating float64) domain.RatingCategory {
	switch {
	case rating <= maloEdge:
		return domain.CategoryMalo
	case rating <= promedioEdge:
		return domain.CategoryPromedio
	case rating <= buenoEdge:
		return domain.CategoryBueno
	default:
		return domain.CategoryExcelente
	}
}
