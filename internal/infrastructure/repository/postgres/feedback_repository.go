package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

const pgUniqueViolation = "23505"

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS tweets (
	id BIGSERIAL PRIMARY KEY,
	tweet_id TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	author TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis (
	id BIGSERIAL PRIMARY KEY,
	tweet_id TEXT NOT NULL UNIQUE REFERENCES tweets(tweet_id),
	suggested_category TEXT NOT NULL,
	final_category TEXT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	urgency_score INTEGER NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS corrections (
	id BIGSERIAL PRIMARY KEY,
	tweet_id TEXT NOT NULL REFERENCES tweets(tweet_id),
	original_category TEXT NOT NULL,
	corrected_category TEXT NOT NULL,
	tweet_text TEXT NOT NULL,
	corrected_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_final_category ON analysis(final_category);
CREATE INDEX IF NOT EXISTS idx_corrections_corrected_at ON corrections(corrected_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) InsertTweet(ctx context.Context, tweet *domain.Tweet) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tweets (tweet_id, text, author, timestamp)
VALUES ($1, $2, $3, $4)
`, tweet.TweetID, tweet.Text, tweet.Author, tweet.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrDuplicateTweet, "insert tweet", err)
		}
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) GetTweet(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT tweet_id, text, author, timestamp
FROM tweets
WHERE tweet_id = $1
`, tweetID)

	var tweet domain.Tweet
	if err := row.Scan(&tweet.TweetID, &tweet.Text, &tweet.Author, &tweet.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTweetNotFound, "get tweet", err)
		}
		return nil, fmt.Errorf("scan tweet: %w", err)
	}
	return &tweet, nil
}

func (r *FeedbackRepository) ListUnanalyzed(ctx context.Context) ([]domain.Tweet, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.tweet_id, t.text, t.author, t.timestamp
FROM tweets t
LEFT JOIN analysis a ON t.tweet_id = a.tweet_id
WHERE a.id IS NULL
ORDER BY t.timestamp
`)
	if err != nil {
		return nil, fmt.Errorf("query unanalyzed tweets: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var tweet domain.Tweet
		if err := rows.Scan(&tweet.TweetID, &tweet.Text, &tweet.Author, &tweet.Timestamp); err != nil {
			return nil, fmt.Errorf("scan unanalyzed tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unanalyzed tweets: %w", err)
	}
	return tweets, nil
}

// InsertAnalysis relies on the UNIQUE(tweet_id) constraint: a concurrent
// batch run that loses the insert race gets inserted=false, not an error.
func (r *FeedbackRepository) InsertAnalysis(ctx context.Context, analysis *domain.Analysis) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
INSERT INTO analysis (tweet_id, suggested_category, final_category, confidence_score, urgency_score, analyzed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tweet_id) DO NOTHING
`,
		analysis.TweetID, analysis.SuggestedCategory, analysis.FinalCategory,
		analysis.ConfidenceScore, analysis.UrgencyScore, analysis.AnalyzedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert analysis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert analysis rows affected: %w", err)
	}
	return affected == 1, nil
}

// ApplyOverride runs the correction append and the final-category update in
// one transaction. The analysis row is locked so racing overrides serialize
// and each correction captures the category it actually replaced.
func (r *FeedbackRepository) ApplyOverride(ctx context.Context, tweetID, newCategory string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin override tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `
SELECT a.final_category, t.text
FROM analysis a
JOIN tweets t ON a.tweet_id = t.tweet_id
WHERE a.tweet_id = $1
FOR UPDATE OF a
`, tweetID)

	var currentCategory, tweetText string
	if err := row.Scan(&currentCategory, &tweetText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WrapError(domain.ErrAnalysisNotFound, "apply override", err)
		}
		return fmt.Errorf("load current analysis: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO corrections (tweet_id, original_category, corrected_category, tweet_text, corrected_at)
VALUES ($1, $2, $3, $4, $5)
`, tweetID, currentCategory, newCategory, tweetText, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert correction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE analysis
SET final_category = $2
WHERE tweet_id = $1
`, tweetID, newCategory); err != nil {
		return fmt.Errorf("update final category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit override tx: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) RecentCorrections(ctx context.Context, limit int) ([]domain.Correction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT tweet_id, original_category, corrected_category, tweet_text, corrected_at
FROM corrections
ORDER BY corrected_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent corrections: %w", err)
	}
	defer rows.Close()

	var corrections []domain.Correction
	for rows.Next() {
		var c domain.Correction
		if err := rows.Scan(&c.TweetID, &c.OriginalCategory, &c.CorrectedCategory, &c.TweetText, &c.CorrectedAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corrections: %w", err)
	}
	return corrections, nil
}

func (r *FeedbackRepository) Summary(ctx context.Context) (domain.Summary, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT
	(SELECT COUNT(*) FROM tweets) AS total_tweets,
	(SELECT COUNT(*) FROM analysis) AS analyzed_tweets,
	(SELECT COUNT(*) FROM corrections) AS total_corrections
`)

	var summary domain.Summary
	if err := row.Scan(&summary.TotalTweets, &summary.AnalyzedTweets, &summary.TotalCorrections); err != nil {
		return domain.Summary{}, fmt.Errorf("scan summary: %w", err)
	}
	return summary, nil
}

func (r *FeedbackRepository) CategoryStats(ctx context.Context) ([]domain.CategoryStats, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT final_category, COUNT(*) AS count, AVG(urgency_score) AS avg_urgency
FROM analysis
GROUP BY final_category
ORDER BY count DESC, final_category
`)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStats
	for rows.Next() {
		var s domain.CategoryStats
		if err := rows.Scan(&s.Category, &s.Count, &s.AvgUrgency); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return stats, nil
}

func (r *FeedbackRepository) AllCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT final_category
FROM analysis
ORDER BY final_category
`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *FeedbackRepository) ListByCategory(ctx context.Context, category string) ([]domain.TweetWithAnalysis, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.tweet_id, t.text, t.author, t.timestamp,
	a.suggested_category, a.final_category, a.confidence_score, a.urgency_score
FROM tweets t
JOIN analysis a ON t.tweet_id = a.tweet_id
WHERE a.final_category = $1
ORDER BY a.urgency_score DESC, t.timestamp DESC
`, category)
	if err != nil {
		return nil, fmt.Errorf("query tweets by category: %w", err)
	}
	defer rows.Close()

	var tweets []domain.TweetWithAnalysis
	for rows.Next() {
		var t domain.TweetWithAnalysis
		if err := rows.Scan(
			&t.TweetID, &t.Text, &t.Author, &t.Timestamp,
			&t.SuggestedCategory, &t.FinalCategory, &t.ConfidenceScore, &t.UrgencyScore,
		); err != nil {
			return nil, fmt.Errorf("scan tweet with analysis: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tweets by category: %w", err)
	}
	return tweets, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
