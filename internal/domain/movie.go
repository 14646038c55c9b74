package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Genre is a single named genre entry as delivered by the provider.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieSummary is one item of a popular-movies catalog page.
// ReleaseDate stays a raw string until the cleaning stage parses it.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

// MovieDetail is the per-id detail record. Budget and Revenue are pointers
// so the provider's nulls survive decoding until the coercion rule runs.
type MovieDetail struct {
	ID      int     `json:"id"`
	Genres  []Genre `json:"genres"`
	Runtime *int    `json:"runtime"`
	Budget  *int64  `json:"budget"`
	Revenue *int64  `json:"revenue"`
}

// CleanedMovie is the merge of a surviving summary and its detail row.
// Only ids present on both sides survive the join.
type CleanedMovie struct {
	ID          int
	Title       string
	ReleaseDate time.Time
	VoteAverage float64
	VoteCount   int
	Popularity  float64
	Genres      string
	Runtime     int
	Budget      int64
	Revenue     int64
}

// RatingCategory buckets a rating into a fixed label set.
type RatingCategory string

const (
	CategoryMalo      RatingCategory = "Malo"
	CategoryPromedio  RatingCategory = "Promedio"
	CategoryBueno     RatingCategory = "Bueno"
	CategoryExcelente RatingCategory = "Excelente"
)

// TransformedMovie is the final shape persisted to the movies table.
// ProfitMargin is nil exactly when BudgetUSD is zero.
type TransformedMovie struct {
	MovieID         int
	Title           string
	ReleaseDate     time.Time
	Rating          float64
	VoteCount       int
	PopularityScore float64
	Genres          string
	DurationMinutes int
	BudgetUSD       int64
	RevenueUSD      int64
	ProfitMargin    *decimal.Decimal
	RatingCategory  RatingCategory
}
