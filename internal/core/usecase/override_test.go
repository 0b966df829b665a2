package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

type overrideCall struct {
	tweetID     string
	newCategory string
}

type overrideRepoFake struct {
	analyzeRepoFake
	overrideErr error
	calls       []overrideCall
}

func (f *overrideRepoFake) ApplyOverride(_ context.Context, tweetID, newCategory string) error {
	if f.overrideErr != nil {
		return f.overrideErr
	}
	f.calls = append(f.calls, overrideCall{tweetID: tweetID, newCategory: newCategory})
	return nil
}

type metricsFake struct {
	analyses  int
	overrides int
}

func (f *metricsFake) ObserveAnalysis(string, int) { f.analyses++ }
func (f *metricsFake) ObserveOverride()            { f.overrides++ }

func TestOverrideAcceptsAdHocCategories(t *testing.T) {
	repo := &overrideRepoFake{}
	metrics := &metricsFake{}
	uc := NewOverrideUseCase(repo, metrics)

	if err := uc.Override(context.Background(), "t1", "user_error_custom"); err != nil {
		t.Fatalf("Override() error = %v", err)
	}
	if len(repo.calls) != 1 || repo.calls[0].newCategory != "user_error_custom" {
		t.Fatalf("unexpected repo calls %+v", repo.calls)
	}
	if metrics.overrides != 1 {
		t.Fatalf("expected override metric, got %d", metrics.overrides)
	}
}

func TestOverrideRejectsBlankArguments(t *testing.T) {
	uc := NewOverrideUseCase(&overrideRepoFake{}, nil)

	if err := uc.Override(context.Background(), "  ", "x"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank tweet id, got %v", err)
	}
	if err := uc.Override(context.Background(), "t1", ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank category, got %v", err)
	}
}

func TestOverridePropagatesNotFound(t *testing.T) {
	repo := &overrideRepoFake{
		overrideErr: domain.WrapError(domain.ErrAnalysisNotFound, "apply override", errors.New("t1")),
	}
	metrics := &metricsFake{}
	uc := NewOverrideUseCase(repo, metrics)

	err := uc.Override(context.Background(), "t1", "user_error_custom")
	if !domain.IsKind(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
	if metrics.overrides != 0 {
		t.Fatalf("failed override must not be counted")
	}
}
