package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS movies (
    id SERIAL PRIMARY KEY,
    movie_id INT UNIQUE,
    title VARCHAR,
    release_date DATE,
    rating DECIMAL(3, 1),
    vote_count INT,
    popularity_score DECIMAL,
    genres TEXT,
    duration_minutes INT,
    budget_usd BIGINT,
    revenue_usd BIGINT,
    profit_margin DECIMAL,
    rating_category VARCHAR
)`

const upsertSuffix = `ON CONFLICT (movie_id) DO UPDATE SET
    title = EXCLUDED.title,
    release_date = EXCLUDED.release_date,
    rating = EXCLUDED.rating,
    vote_count = EXCLUDED.vote_count,
    popularity_score = EXCLUDED.popularity_score,
    genres = EXCLUDED.genres,
    duration_minutes = EXCLUDED.duration_minutes,
    budget_usd = EXCLUDED.budget_usd,
    revenue_usd = EXCLUDED.revenue_usd,
    profit_margin = EXCLUDED.profit_margin,
    rating_category = EXCLUDED.rating_category`

var movieColumns = []string{
	"movie_id", "title", "release_date", "rating", "vote_count",
	"popularity_score", "genres", "duration_minutes", "budget_usd",
	"revenue_usd", "profit_margin", "rating_category",
}

// PostgresRepository upserts transformed movies into the movies table.
// The connection is opened lazily on first use and must be released by the
// caller via Close on every exit path.
type PostgresRepository struct {
	dsn    string
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.MovieRepository = (*PostgresRepository)(nil)

// NewPostgresRepository keeps the DSN; no connection is made yet.
func NewPostgresRepository(dsn string, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{dsn: dsn, logger: logger}
}

func (r *PostgresRepository) connect(ctx context.Context) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r.db = db
	return r.db, nil
}

// EnsureSchema creates the movies table if it does not exist yet, inside its
// own transaction.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	db, err := r.connect(ctx)
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, createTableQuery); err != nil {
			return fmt.Errorf("create movies table: %w", err)
		}
		return nil
	})
}

// UpsertBatch writes one batch in a single multi-row INSERT ... ON CONFLICT
// statement wrapped in its own transaction. A failure rolls the whole batch
// back and is returned to the caller.
func (r *PostgresRepository) UpsertBatch(ctx context.Context, batch []domain.TransformedMovie) error {
	if len(batch) == 0 {
		return nil
	}

	db, err := r.connect(ctx)
	if err != nil {
		return err
	}

	builder := sq.Insert("movies").
		Columns(movieColumns...).
		Suffix(upsertSuffix).
		PlaceholderFormat(sq.Dollar)

	for _, movie := range batch {
		builder = builder.Values(
			movie.MovieID,
			movie.Title,
			movie.ReleaseDate,
			movie.Rating,
			movie.VoteCount,
			movie.PopularityScore,
			movie.Genres,
			movie.DurationMinutes,
			movie.BudgetUSD,
			movie.RevenueUSD,
			movie.ProfitMargin,
			string(movie.RatingCategory),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	return r.inTransaction(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert batch of %d: %w", len(batch), err)
		}
		return nil
	})
}

func (r *PostgresRepository) inTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.warn("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close releases the connection if one was opened.
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}

func (r *PostgresRepository) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
