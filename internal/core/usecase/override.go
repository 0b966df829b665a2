package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

// OverrideUseCase records a reviewer correction. Any non-empty category
// string is accepted, which is how ad hoc categories come into existence;
// the repository enforces atomicity of the correction-plus-update pair.
type OverrideUseCase struct {
	repo    ports.FeedbackRepository
	metrics ports.AnalysisMetrics
}

func NewOverrideUseCase(repo ports.FeedbackRepository, metrics ports.AnalysisMetrics) *OverrideUseCase {
	return &OverrideUseCase{
		repo:    repo,
		metrics: metrics,
	}
}

func (uc *OverrideUseCase) Override(ctx context.Context, tweetID, newCategory string) error {
	if strings.TrimSpace(tweetID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "override category", fmt.Errorf("tweet_id is required"))
	}
	if strings.TrimSpace(newCategory) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "override category", fmt.Errorf("new_category is required"))
	}

	if err := uc.repo.ApplyOverride(ctx, tweetID, newCategory); err != nil {
		return fmt.Errorf("apply override: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveOverride()
	}
	return nil
}
