package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

// recentCorrectionsLimit bounds the corrections panel on the dashboard; the
// few-shot window used for categorization is smaller and lives in classify.
const recentCorrectionsLimit = 10

// DashboardUseCase assembles the aggregated read models for the front end.
type DashboardUseCase struct {
	repo ports.FeedbackRepository
}

func NewDashboardUseCase(repo ports.FeedbackRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

func (uc *DashboardUseCase) Dashboard(ctx context.Context) (*domain.DashboardData, error) {
	summary, err := uc.repo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}

	stats, err := uc.repo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category stats: %w", err)
	}

	categories, err := uc.repo.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	corrections, err := uc.repo.RecentCorrections(ctx, recentCorrectionsLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent corrections: %w", err)
	}

	// Empty slices keep the JSON payload stable for the front end.
	if stats == nil {
		stats = []domain.CategoryStats{}
	}
	if categories == nil {
		categories = []string{}
	}
	if corrections == nil {
		corrections = []domain.Correction{}
	}

	return &domain.DashboardData{
		Summary:           summary,
		CategoryStats:     stats,
		AllCategories:     categories,
		RecentCorrections: corrections,
	}, nil
}

func (uc *DashboardUseCase) TweetsByCategory(ctx context.Context, category string) ([]domain.TweetWithAnalysis, error) {
	if category == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "tweets by category", fmt.Errorf("category is required"))
	}
	tweets, err := uc.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list tweets by category: %w", err)
	}
	if tweets == nil {
		tweets = []domain.TweetWithAnalysis{}
	}
	return tweets, nil
}
