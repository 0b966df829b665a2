package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

// IngestUseCase stores incoming feedback and announces it on the queue so
// the worker can analyze it without waiting for a manual batch run.
type IngestUseCase struct {
	repo  ports.FeedbackRepository
	queue ports.MessageQueue
}

func NewIngestUseCase(repo ports.FeedbackRepository, queue ports.MessageQueue) *IngestUseCase {
	return &IngestUseCase{
		repo:  repo,
		queue: queue,
	}
}

func (uc *IngestUseCase) Ingest(ctx context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	if tweet == nil || strings.TrimSpace(tweet.Text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest tweet", fmt.Errorf("text is required"))
	}

	stored := *tweet
	if strings.TrimSpace(stored.TweetID) == "" {
		stored.TweetID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	if err := uc.repo.InsertTweet(ctx, &stored); err != nil {
		return nil, fmt.Errorf("store tweet: %w", err)
	}

	if err := uc.queue.PublishTweetReceived(ctx, stored.TweetID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return &stored, nil
}
