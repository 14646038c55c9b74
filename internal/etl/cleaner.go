package etl

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
)

const (
	dateLayout       = "2006-01-02"
	minVoteCount     = 50
	unknownGenres    = "Unknown"
	genreJoinPattern = ", "
)

// AuditReason names a data-quality rule that rejected (or flagged) a record.
type AuditReason string

const (
	ReasonDuplicatedMovies  AuditReason = "duplicated_movies"
	ReasonDuplicatedDetails AuditReason = "duplicated_details"
	ReasonInvalidDates      AuditReason = "invalid_dates"
	ReasonFutureDates       AuditReason = "future_dates"
	ReasonMissingBudget     AuditReason = "missing_budget"
	ReasonLowVotes          AuditReason = "low_votes"
)

// Audit collects rejected and flagged rows per rule, for inspection only;
// nothing in it feeds back into the pipeline.
type Audit struct {
	Summaries map[AuditReason][]domain.MovieSummary
	Details   map[AuditReason][]domain.MovieDetail
}

func newAudit() *Audit {
	return &Audit{
		Summaries: map[AuditReason][]domain.MovieSummary{},
		Details:   map[AuditReason][]domain.MovieDetail{},
	}
}

func (a *Audit) addSummary(reason AuditReason, row domain.MovieSummary) {
	a.Summaries[reason] = append(a.Summaries[reason], row)
}

func (a *Audit) addDetail(reason AuditReason, row domain.MovieDetail) {
	a.Details[reason] = append(a.Details[reason], row)
}

// CleanerValidator applies the data-quality rules in a fixed order and merges
// the surviving summaries and details on the movie id.
type CleanerValidator struct {
	now    func() time.Time
	titler cases.Caser
	logger *slog.Logger
}

// NewCleanerValidator wires the clock used by the future-date rule.
func NewCleanerValidator(now func() time.Time, logger *slog.Logger) *CleanerValidator {
	if now == nil {
		now = time.Now
	}
	return &CleanerValidator{
		now:    now,
		titler: cases.Title(language.Und),
		logger: logger,
	}
}

// CleanAndValidate runs every rule in order. Rejected rows land in the audit
// before being dropped; a missing natural key is a structural error and
// aborts the stage.
func (c *CleanerValidator) CleanAndValidate(summaries []domain.MovieSummary, details []domain.MovieDetail) ([]domain.CleanedMovie, *Audit, error) {
	audit := newAudit()
	summariesIn, detailsIn := len(summaries), len(details)

	if err := checkNaturalKeys(summaries, details); err != nil {
		return nil, nil, err
	}

	summaries = dedupSummaries(summaries, audit)
	details = dedupDetails(details, audit)

	rows := c.parseDates(summaries, audit)
	rows = c.dropFutureDates(rows, audit)

	c.auditMissingBudgets(details, audit)

	rows = c.normalizeTitles(rows)
	rows = c.dropLowVotes(rows, audit)

	cleaned := c.join(rows, details)
	c.logger.Info("clean and validate done",
		"summaries_in", summariesIn, "details_in", detailsIn, "out", len(cleaned))

	return cleaned, audit, nil
}

// checkNaturalKeys treats an absent id as a missing column, not a per-row
// data-quality issue.
func checkNaturalKeys(summaries []domain.MovieSummary, details []domain.MovieDetail) error {
	for _, row := range summaries {
		if row.ID == 0 {
			return fmt.Errorf("summary %q has no id", row.Title)
		}
	}
	for _, row := range details {
		if row.ID == 0 {
			return fmt.Errorf("detail record has no id")
		}
	}
	return nil
}

func dedupSummaries(rows []domain.MovieSummary, audit *Audit) []domain.MovieSummary {
	seen := map[int]struct{}{}
	kept := make([]domain.MovieSummary, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			audit.addSummary(ReasonDuplicatedMovies, row)
			continue
		}
		seen[row.ID] = struct{}{}
		kept = append(kept, row)
	}
	return kept
}

func dedupDetails(rows []domain.MovieDetail, audit *Audit) []domain.MovieDetail {
	seen := map[int]struct{}{}
	kept := make([]domain.MovieDetail, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			audit.addDetail(ReasonDuplicatedDetails, row)
			continue
		}
		seen[row.ID] = struct{}{}
		kept = append(kept, row)
	}
	return kept
}

type datedSummary struct {
	domain.MovieSummary
	release time.Time
}

func (c *CleanerValidator) parseDates(rows []domain.MovieSummary, audit *Audit) []datedSummary {
	kept := make([]datedSummary, 0, len(rows))
	for _, row := range rows {
		parsed, err := time.Parse(dateLayout, row.ReleaseDate)
		if err != nil {
			audit.addSummary(ReasonInvalidDates, row)
			continue
		}
		kept = append(kept, datedSummary{MovieSummary: row, release: parsed})
	}
	return kept
}

func (c *CleanerValidator) dropFutureDates(rows []datedSummary, audit *Audit) []datedSummary {
	now := c.now()
	kept := make([]datedSummary, 0, len(rows))
	for _, row := range rows {
		if row.release.After(now) {
			audit.addSummary(ReasonFutureDates, row.MovieSummary)
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// auditMissingBudgets flags null budgets for inspection; the rows stay in.
func (c *CleanerValidator) auditMissingBudgets(rows []domain.MovieDetail, audit *Audit) {
	for _, row := range rows {
		if row.Budget == nil {
			audit.addDetail(ReasonMissingBudget, row)
		}
	}
}

func (c *CleanerValidator) normalizeTitles(rows []datedSummary) []datedSummary {
	for i := range rows {
		rows[i].Title = c.titler.String(rows[i].Title)
	}
	return rows
}

func (c *CleanerValidator) dropLowVotes(rows []datedSummary, audit *Audit) []datedSummary {
	kept := make([]datedSummary, 0, len(rows))
	for _, row := range rows {
		if row.VoteCount < minVoteCount {
			audit.addSummary(ReasonLowVotes, row.MovieSummary)
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// join performs the inner merge on id, in surviving-summary order. An id on
// only one side is excluded silently; that is the join, not a rejection rule.
func (c *CleanerValidator) join(rows []datedSummary, details []domain.MovieDetail) []domain.CleanedMovie {
	byID := make(map[int]domain.MovieDetail, len(details))
	for _, detail := range details {
		byID[detail.ID] = detail
	}

	cleaned := make([]domain.CleanedMovie, 0, len(rows))
	for _, row := range rows {
		detail, ok := byID[row.ID]
		if !ok {
			continue
		}
		cleaned = append(cleaned, domain.CleanedMovie{
			ID:          row.ID,
			Title:       row.Title,
			ReleaseDate: row.release,
			VoteAverage: row.VoteAverage,
			VoteCount:   row.VoteCount,
			Popularity:  row.Popularity,
			Genres:      flattenGenres(detail.Genres),
			Runtime:     coalesceInt(detail.Runtime),
			Budget:      coalesceInt64(detail.Budget),
			Revenue:     coalesceInt64(detail.Revenue),
		})
	}
	return cleaned
}

func flattenGenres(genres []domain.Genre) string {
	if len(genres) == 0 {
		return unknownGenres
	}
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		names = append(names, genre.Name)
	}
	return strings.Join(names, genreJoinPattern)
}

func coalesceInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func coalesceInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
