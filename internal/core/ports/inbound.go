package ports

import (
	"context"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

// BatchAnalyzer is the inbound contract for running analysis over tweets.
type BatchAnalyzer interface {
	AnalyzeUnprocessed(ctx context.Context) (domain.BatchResult, error)
	AnalyzeTweet(ctx context.Context, tweetID string) error
}

// TweetIngestor is the inbound contract for storing new feedback.
type TweetIngestor interface {
	Ingest(ctx context.Context, tweet *domain.Tweet) (*domain.Tweet, error)
}

// DashboardReader is the inbound read model for the dashboard page.
type DashboardReader interface {
	Dashboard(ctx context.Context) (*domain.DashboardData, error)
	TweetsByCategory(ctx context.Context, category string) ([]domain.TweetWithAnalysis, error)
}

// CategoryOverrider is the inbound contract for reviewer corrections.
type CategoryOverrider interface {
	Override(ctx context.Context, tweetID, newCategory string) error
}
