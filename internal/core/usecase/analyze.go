package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/feedback-analyzer/internal/core/classify"
	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

// AnalyzeUseCase runs the categorization engine and urgency scorer over
// tweets that have no analysis yet.
type AnalyzeUseCase struct {
	repo              ports.FeedbackRepository
	engine            *classify.Engine
	correctionsWindow int
	metrics           ports.AnalysisMetrics
	logger            *slog.Logger
}

func NewAnalyzeUseCase(
	repo ports.FeedbackRepository,
	engine *classify.Engine,
	correctionsWindow int,
	metrics ports.AnalysisMetrics,
	logger *slog.Logger,
) *AnalyzeUseCase {
	if correctionsWindow <= 0 {
		correctionsWindow = classify.FewShotWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeUseCase{
		repo:              repo,
		engine:            engine,
		correctionsWindow: correctionsWindow,
		metrics:           metrics,
		logger:            logger,
	}
}

// AnalyzeUnprocessed analyzes every tweet lacking an analysis row, strictly
// sequentially. A per-tweet failure is logged and skipped; it never aborts
// the batch. The returned count reflects successes only, so a second run
// with no new tweets reports zero.
func (uc *AnalyzeUseCase) AnalyzeUnprocessed(ctx context.Context) (domain.BatchResult, error) {
	tweets, err := uc.repo.ListUnanalyzed(ctx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("list unanalyzed tweets: %w", err)
	}
	if len(tweets) == 0 {
		return domain.BatchResult{Analyzed: 0, Message: "No new tweets to analyze"}, nil
	}

	analyzed := 0
	for i := range tweets {
		inserted, err := uc.analyzeOne(ctx, &tweets[i])
		if err != nil {
			uc.logger.Error("tweet analysis failed",
				"tweet_id", tweets[i].TweetID,
				"error", err,
			)
			continue
		}
		if inserted {
			analyzed++
		}
	}

	return domain.BatchResult{
		Analyzed: analyzed,
		Message:  fmt.Sprintf("Successfully analyzed %d tweets", analyzed),
	}, nil
}

// AnalyzeTweet analyzes a single tweet by id; the worker invokes it for each
// ingestion event. Analyzing an already-analyzed tweet is a no-op.
func (uc *AnalyzeUseCase) AnalyzeTweet(ctx context.Context, tweetID string) error {
	tweet, err := uc.repo.GetTweet(ctx, tweetID)
	if err != nil {
		return fmt.Errorf("fetch tweet by id: %w", err)
	}
	if _, err := uc.analyzeOne(ctx, tweet); err != nil {
		return err
	}
	return nil
}

func (uc *AnalyzeUseCase) analyzeOne(ctx context.Context, tweet *domain.Tweet) (bool, error) {
	recent, err := uc.repo.RecentCorrections(ctx, uc.correctionsWindow)
	if err != nil {
		// Few-shot context is advisory; analysis proceeds without it.
		uc.logger.Warn("fetch recent corrections failed", "error", err)
		recent = nil
	}

	suggestion := uc.engine.Categorize(ctx, tweet.Text, recent)
	urgency := classify.UrgencyScore(tweet.Text)

	analysis := &domain.Analysis{
		TweetID:           tweet.TweetID,
		SuggestedCategory: suggestion.Category,
		FinalCategory:     suggestion.Category,
		ConfidenceScore:   suggestion.Confidence,
		UrgencyScore:      urgency,
		AnalyzedAt:        time.Now().UTC(),
	}

	inserted, err := uc.repo.InsertAnalysis(ctx, analysis)
	if err != nil {
		return false, fmt.Errorf("insert analysis: %w", err)
	}
	if !inserted {
		uc.logger.Debug("analysis already exists, skipping", "tweet_id", tweet.TweetID)
		return false, nil
	}

	if uc.metrics != nil {
		uc.metrics.ObserveAnalysis(suggestion.Source, urgency)
	}
	uc.logger.Info("tweet analyzed",
		"tweet_id", tweet.TweetID,
		"category", suggestion.Category,
		"urgency", urgency,
		"source", suggestion.Source,
	)
	return true, nil
}
