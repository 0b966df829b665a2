package ports

import (
	"context"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

// FeedbackRepository is the persistence gateway for tweets, analyses and
// corrections. It is the only shared mutable resource in the system.
type FeedbackRepository interface {
	InsertTweet(ctx context.Context, tweet *domain.Tweet) error
	GetTweet(ctx context.Context, tweetID string) (*domain.Tweet, error)
	ListUnanalyzed(ctx context.Context) ([]domain.Tweet, error)

	// InsertAnalysis stores one analysis row. It reports false without error
	// when an analysis for the tweet already exists, which makes concurrent
	// batch runs converge instead of duplicating rows.
	InsertAnalysis(ctx context.Context, analysis *domain.Analysis) (bool, error)

	// ApplyOverride atomically appends a correction capturing the current
	// final category and moves the analysis to the new one.
	ApplyOverride(ctx context.Context, tweetID, newCategory string) error
	RecentCorrections(ctx context.Context, limit int) ([]domain.Correction, error)

	Summary(ctx context.Context) (domain.Summary, error)
	CategoryStats(ctx context.Context) ([]domain.CategoryStats, error)
	AllCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]domain.TweetWithAnalysis, error)
}

// TextGenerator is the optional text-generation capability. Absence (a nil
// generator) or failure must never degrade availability, only categorization
// quality: callers fall back to deterministic keyword rules.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// MessageQueue carries ingestion events from the API to the analysis worker.
type MessageQueue interface {
	PublishTweetReceived(ctx context.Context, tweetID string) error
	SubscribeTweetReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// AnalysisMetrics records categorization outcomes. Implementations must be
// safe for concurrent use.
type AnalysisMetrics interface {
	ObserveAnalysis(source string, urgency int)
	ObserveOverride()
}
